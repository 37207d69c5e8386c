package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	stun "github.com/ztun/ztun"
	"github.com/ztun/ztun/server"
)

func TestMetrics_ObserveCountsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe(server.MessageResult{Kind: server.ResultDiscard})
	m.Observe(server.MessageResult{Kind: server.ResultOk})

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_ObserveRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	msg, err := stun.NewMessageBuilder().
		SetClass(stun.ClassErrorResponse).
		SetMethod(stun.MethodBinding).
		RandomTransactionID().
		AddAttribute(&stun.ErrorCodeAttribute{Code: stun.CodeBadRequest, Reason: []byte(stun.CodeBadRequest.Reason())}).
		Build()
	assert.NoError(t, err)

	m.Observe(server.MessageResult{Kind: server.ResultResponse, Message: msg})

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
