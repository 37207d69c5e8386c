package main

import (
	"net"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	stun "github.com/ztun/ztun"
)

func newBindCommand() *cobra.Command {
	var (
		addr     string
		username string
		password string
		longTerm bool
	)

	cmd := &cobra.Command{
		Use:   "bind <server-address>",
		Short: "Send a single Binding request and print the reflexive address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr = args[0]

			return runBind(addr, username, password, longTerm)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "USERNAME for authenticated requests")
	cmd.Flags().StringVar(&password, "password", "", "password used to compute MESSAGE-INTEGRITY")
	cmd.Flags().BoolVar(&longTerm, "long-term", false, "retry with long-term credentials after a 401")

	return cmd
}

func runBind(addr, username, password string, longTerm bool) error {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return errors.Wrapf(err, "dialing %q", addr)
	}
	defer conn.Close() //nolint:errcheck

	request, err := bindingRequest(username, password)
	if err != nil {
		return err
	}

	resp, err := roundTrip(conn, request)
	if err != nil {
		return err
	}

	if longTerm && resp.Type.Class == stun.ClassErrorResponse {
		var ec stun.ErrorCodeAttribute
		if ec.GetFrom(resp) == nil && ec.Code == stun.CodeUnauthenticated {
			resp, err = retryWithRealmAndNonce(conn, resp, username, password)
			if err != nil {
				return err
			}
		}
	}

	return printResponse(resp)
}

func bindingRequest(username, password string) (*stun.Message, error) {
	b := stun.NewMessageBuilder().
		SetClass(stun.ClassRequest).
		SetMethod(stun.MethodBinding).
		RandomTransactionID()

	if username != "" {
		b = b.AddAttribute(stun.NewUsername(username))
	}
	if password != "" {
		b = b.AddMessageIntegrity([]byte(password))
	}

	return b.AddFingerprint().Build()
}

func retryWithRealmAndNonce(conn net.Conn, errResp *stun.Message, username, password string) (*stun.Message, error) {
	var realm stun.Realm
	var nonce stun.Nonce
	if err := realm.GetFrom(errResp); err != nil {
		return nil, errors.Wrap(err, "server error_response carried no REALM")
	}
	if err := nonce.GetFrom(errResp); err != nil {
		return nil, errors.Wrap(err, "server error_response carried no NONCE")
	}

	key := stun.NewLongTermIntegrity(username, realm.String(), password)
	b := stun.NewMessageBuilder().
		SetClass(stun.ClassRequest).
		SetMethod(stun.MethodBinding).
		RandomTransactionID().
		AddAttribute(stun.NewUsername(username)).
		AddAttribute(&realm).
		AddAttribute(&nonce)
	b.AddMessageIntegrity(key)
	request, err := b.AddFingerprint().Build()
	if err != nil {
		return nil, err
	}

	return roundTrip(conn, request)
}

func roundTrip(conn net.Conn, request *stun.Message) (*stun.Message, error) {
	if err := conn.SetDeadline(time.Now().Add(5 * time.Second)); err != nil {
		return nil, err
	}
	if _, err := conn.Write(request.Raw); err != nil {
		return nil, errors.Wrap(err, "sending request")
	}

	buf := make([]byte, stun.MaxPacketSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}

	resp := new(stun.Message)
	resp.Raw = append(resp.Raw[:0], buf[:n]...)
	if err := resp.Decode(); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}

	return resp, nil
}

func printResponse(resp *stun.Message) error {
	if resp.Type.Class == stun.ClassErrorResponse {
		var ec stun.ErrorCodeAttribute
		if err := ec.GetFrom(resp); err == nil {
			color.Red("error_response: %d %s", ec.Code, ec.Reason)
		}

		return nil
	}

	var addr stun.XORMappedAddress
	if err := addr.GetFrom(resp); err != nil {
		return errors.Wrap(err, "response carried no XOR-MAPPED-ADDRESS")
	}
	color.Green("reflexive address: %s:%d", addr.IP, addr.Port)

	return nil
}
