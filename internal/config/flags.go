package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from args (the command line
// without the program name and the leading dispatch argument).
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-auth-token shared access token
//	-backend default backend selector (gemini, openai, echo)
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-server client-side server address in format [host]:[port]
//	-client-db local transcript cache path
//	-evict-interval idle-session eviction scan interval
//	-session-ttl idle duration before a session is evicted from memory
func ParseFlags(args []string) (*StructuredConfig, error) {
	var listenAddress, serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var authToken string
	var defaultBackend string
	var requestTimeout time.Duration
	var clientDBPath string
	var evictInterval time.Duration
	var sessionTTL time.Duration

	fs := flag.NewFlagSet("chatthy", flag.ContinueOnError)
	fs.Var(&listenAddress, "a", "Net address host:port to listen on")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&authToken, "auth-token", "", "Shared access token")
	fs.StringVar(&defaultBackend, "backend", "", "Default backend selector")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.Var(&serverAddress, "server", "Net address host:port of the server (client mode)")
	fs.StringVar(&clientDBPath, "client-db", "", "Local transcript cache path (client mode)")
	fs.DurationVar(&evictInterval, "evict-interval", 0, "Idle-session eviction scan interval")
	fs.DurationVar(&sessionTTL, "session-ttl", 0, "Idle duration before eviction")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			AuthToken: authToken,
		},
		Server: Server{
			HTTPAddress:    listenAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Backends: Backends{
			Default: defaultBackend,
		},
		Client: Client{
			ServerAddress:  serverAddress.String(),
			DBPath:         clientDBPath,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			EvictInterval: evictInterval,
			SessionTTL:    sessionTTL,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
