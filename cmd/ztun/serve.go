package main

import (
	"net"
	"net/http"
	"strings"

	"github.com/pion/logging"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	stun "github.com/ztun/ztun"
	"github.com/ztun/ztun/auth"
	"github.com/ztun/ztun/server"
	"github.com/ztun/ztun/server/metrics"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a STUN server over UDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfgFile)
		},
	}

	return cmd
}

func runServe(cfgPath string) error {
	cfg, err := loadServeConfig(cfgPath)
	if err != nil {
		return err
	}

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("ztun")

	authType, err := parseAuthType(cfg.Auth)
	if err != nil {
		return err
	}
	algorithms, err := parseAlgorithms(cfg.Algorithms)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		AuthenticationType: authType,
		Realm:              cfg.Realm,
		Algorithms:         algorithms,
	})
	registerUsers(srv, cfg)

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)

	conn, err := net.ListenPacket("udp", cfg.Listen)
	if err != nil {
		return errors.Wrapf(err, "listening on %q", cfg.Listen)
	}
	defer conn.Close() //nolint:errcheck

	go serveMetrics(cfg.Metrics, reg, log)

	log.Infof("listening for STUN requests on %s", cfg.Listen)

	buf := make([]byte, stun.MaxPacketSize)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return errors.Wrap(err, "reading packet")
		}

		msg := new(stun.Message)
		msg.Raw = append(msg.Raw[:0], buf[:n]...)
		if err := msg.Decode(); err != nil {
			log.Warnf("dropping malformed packet from %s: %v", addr, err)

			continue
		}

		udpAddr, ok := addr.(*net.UDPAddr)
		if !ok {
			continue
		}

		result := srv.HandleMessage(msg, server.Source{IP: udpAddr.IP, Port: udpAddr.Port})
		collector.Observe(result)

		if result.Kind != server.ResultResponse {
			continue
		}
		if _, err := conn.WriteTo(result.Message.Raw, addr); err != nil {
			log.Warnf("writing response to %s: %v", addr, err)
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log logging.LeveledLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.Infof("serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil { //nolint:gosec
		log.Errorf("metrics server stopped: %v", err)
	}
}

// registerUsers loads cfg.Users into srv's user registry, deriving a
// short-term or long-term credential per entry depending on cfg.Auth.
// An entry's realm falls back to cfg.Realm when left blank.
func registerUsers(srv *server.Server, cfg serveConfig) {
	for _, u := range cfg.Users {
		realm := u.Realm
		if realm == "" {
			realm = cfg.Realm
		}

		var cred auth.Credential
		if strings.ToLower(cfg.Auth) == "short_term" {
			cred = auth.ShortTerm(u.Password)
		} else {
			cred = auth.LongTerm(u.Username, realm, u.Password)
		}
		srv.RegisterUser(u.Username, cred)
	}
}

func parseAuthType(s string) (server.AuthenticationType, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return server.AuthNone, nil
	case "short_term":
		return server.AuthShortTerm, nil
	case "long_term":
		return server.AuthLongTerm, nil
	default:
		return 0, errors.Errorf("unknown auth type %q", s)
	}
}

func parseAlgorithms(names []string) ([]stun.Algorithm, error) {
	algos := make([]stun.Algorithm, 0, len(names))
	for _, name := range names {
		switch strings.ToUpper(name) {
		case "MD5":
			algos = append(algos, stun.AlgorithmMD5)
		case "SHA256":
			algos = append(algos, stun.AlgorithmSHA256)
		default:
			return nil, errors.Errorf("unknown password algorithm %q", name)
		}
	}

	return algos, nil
}
