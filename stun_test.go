// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package stun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, 3478, DefaultPort)
}
