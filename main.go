package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alexcesaro/log"
	"github.com/alexcesaro/log/golog"
	flags "github.com/jessevdk/go-flags"
	"github.com/ndk-sl4a/sl4a/jsonrpc2"
	"github.com/ndk-sl4a/sl4a/jsonrpc2/ws/gobwas"
	"github.com/ndk-sl4a/sl4a/sl4a"
)

// Version of the binary, assigned during build.
var Version string = "dev"

const (
	defaultHost   = "localhost"
	defaultMethod = "makeToast"
	defaultParam  = "w00t!"
)

// Options contains the flag options
type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Show verbose logging." no-ini:"true"`
	Version bool   `long:"version" description:"Print version and exit." no-ini:"true"`
	Config  string `long:"config" description:"Path to an ini config file. (default: $XDG_CONFIG_HOME/sl4a/client/config.ini)" no-ini:"true"`

	Host      string        `long:"host" env:"AP_HOST" description:"Host of the SL4A server. (default: localhost)"`
	Port      int           `long:"port" env:"AP_PORT" description:"Port of the SL4A server, if not given as an argument."`
	WebSocket string        `long:"ws" description:"Call through a websocket URL (ws://...) instead of host and port."`
	Timeout   time.Duration `long:"timeout" description:"Give up connecting or waiting for the response after this long. Blocks by default."`

	Args struct {
		Port   string   `positional-arg-name:"port" description:"TCP port of the SL4A server."`
		Method string   `positional-arg-name:"method" description:"RPC method to call. (default: makeToast)"`
		Params []string `positional-arg-name:"params" description:"Params, parsed as JSON when valid and sent as strings otherwise."`
	} `positional-args:"yes"`
}

const usageExamples = `Examples:
* Show a toast through a server started with View -> Interpreters -> Start Server:
  $ adb forward tcp:45001 tcp:45001
  $ sl4a 45001

* Call any method:
  $ sl4a 45001 vibrate 300
  $ sl4a 45001 makeToast "Hello from Go"

* Call through a websocket bridge (no port argument):
  $ sl4a --ws ws://localhost:8080/rpc makeToast hi
`

var (
	errMissingPort = errors.New("missing port")
	errInvalidPort = errors.New("invalid port")
)

var logLevels = []log.Level{
	log.Warning,
	log.Info,
	log.Debug,
}

// ErrExplain annotates an error with an explanation.
type ErrExplain struct {
	Cause       error
	Explanation string
}

func (err ErrExplain) Error() string {
	return fmt.Sprintf("%s\n -> %s", err.Cause, err.Explanation)
}

func (err ErrExplain) Unwrap() error {
	return err.Cause
}

// wsDialError is returned when the websocket endpoint could not be reached.
type wsDialError struct {
	URL string
	Err error
}

func (err wsDialError) Error() string {
	return fmt.Sprintf("websocket dial %s: %s", err.URL, err.Err)
}

func (err wsDialError) Unwrap() error {
	return err.Err
}

// port returns the server port: the positional argument if given, otherwise
// --port or AP_PORT.
func (options *Options) port() (int, error) {
	if options.Args.Port == "" {
		if options.Port == 0 {
			return 0, errMissingPort
		}
		return options.Port, nil
	}
	port, err := strconv.Atoi(options.Args.Port)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: %q", errInvalidPort, options.Args.Port)
	}
	return port, nil
}

// call returns the method and params to send. With --ws there is no port
// argument, so the positional arguments shift by one.
func (options *Options) call() (string, []interface{}) {
	method, args := options.Args.Method, options.Args.Params
	if options.WebSocket != "" && options.Args.Port != "" {
		method = options.Args.Port
		args = append([]string{}, options.Args.Params...)
		if options.Args.Method != "" {
			args = append([]string{options.Args.Method}, args...)
		}
	}
	if method == "" {
		return defaultMethod, []interface{}{defaultParam}
	}
	return method, parseParams(args)
}

// parseParams turns command line arguments into positional params. No
// arguments means absent params, which are sent as [null].
func parseParams(args []string) []interface{} {
	if len(args) == 0 {
		return nil
	}
	params := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if json.Valid([]byte(arg)) {
			params = append(params, json.RawMessage(arg))
		} else {
			params = append(params, arg)
		}
	}
	return params
}

func openSession(ctx context.Context, options *Options) (*sl4a.Session, error) {
	if options.WebSocket != "" {
		logger.Infof("Connecting to websocket: %s", options.WebSocket)
		dialCtx := ctx
		if options.Timeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(ctx, options.Timeout)
			defer cancel()
		}
		codec, err := gobwas.WebSocketDial(dialCtx, options.WebSocket)
		if err != nil {
			return nil, wsDialError{options.WebSocket, err}
		}
		return sl4a.NewCodecSession(codec), nil
	}

	port, err := options.port()
	if err != nil {
		return nil, err
	}
	host := options.Host
	if host == "" {
		host = defaultHost
	}
	logger.Infof("Connecting to SL4A server: %s:%d", host, port)
	connector := sl4a.Connector{Timeout: options.Timeout}
	conn, err := connector.Connect(ctx, host, port)
	if err != nil {
		return nil, err
	}
	return sl4a.NewSession(conn), nil
}

// run makes one call and prints the raw response line to out.
func run(options *Options, out io.Writer) error {
	if options.WebSocket == "" {
		if _, err := options.port(); err != nil {
			return err
		}
	}

	ctx := context.Background()
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	session, err := openSession(ctx, options)
	if err != nil {
		return err
	}
	defer session.Close()

	method, params := options.call()
	logger.Debugf("Calling %s with params %v", method, params)
	resp, err := session.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		logger.Warningf("%s returned an error: %s", method, err)
	}
	_, err = fmt.Fprintf(out, "%s\n", resp.Raw)
	return err
}

// explain maps an error onto an exit code and a human readable explanation.
func explain(err error) (int, error) {
	var connErr *sl4a.ConnectError
	var dialErr wsDialError
	var encErr *jsonrpc2.EncodingError

	switch {
	case errors.Is(err, errMissingPort):
		return 1, ErrExplain{err, "Give the SL4A server port as the first argument, or set AP_PORT."}
	case errors.Is(err, errInvalidPort):
		return 1, ErrExplain{err, "The port must be a number between 1 and 65535."}
	case errors.As(err, &connErr) && connErr.Kind == sl4a.ResolutionFailed:
		return 2, ErrExplain{err, fmt.Sprintf("Could not resolve %q. Check the --host flag or AP_HOST.", connErr.Host)}
	case errors.As(err, &connErr):
		return 2, ErrExplain{err, `Could not connect to the SL4A server. Make sure it is running (View -> Interpreters -> Start Server) and that the port is forwarded with "adb forward tcp:PORT tcp:PORT".`}
	case errors.As(err, &dialErr):
		return 2, ErrExplain{err, "Failed to connect to the websocket RPC endpoint."}
	case errors.Is(err, jsonrpc2.ErrConnectionClosed):
		return 3, ErrExplain{err, "The server closed the connection before answering."}
	case errors.Is(err, context.DeadlineExceeded):
		return 4, ErrExplain{err, "No response within --timeout."}
	case errors.As(err, &encErr):
		return 4, ErrExplain{err, "The params could not be encoded as JSON."}
	case errors.Is(err, jsonrpc2.ErrEmptyMethod):
		return 1, err
	}
	if _, ok := err.(ErrExplain); ok {
		return 4, err
	}
	return 4, ErrExplain{err, fmt.Sprintf(`Error type %T is missing an explanation.`, err)}
}

func main() {
	options, parser, err := parseOptions(os.Args[1:])
	if err != nil {
		if flagErr, ok := err.(*flags.Error); ok {
			if flagErr.Type == flags.ErrHelp {
				exit(0, usageExamples)
			}
			// Already printed by the parser.
			os.Exit(1)
		}
		exit(1, "%s\n", err)
	}

	if options.Version {
		fmt.Println(Version)
		os.Exit(0)
	}

	// Figure out the log level
	numVerbose := len(options.Verbose)
	if numVerbose >= len(logLevels) {
		numVerbose = len(logLevels) - 1
	}

	logLevel := logLevels[numVerbose]
	logWriter := os.Stderr

	SetLogger(golog.New(logWriter, logLevel))
	if logLevel == log.Debug {
		// Enable logging from subpackages
		sl4a.SetLogger(logWriter)
		jsonrpc2.SetLogger(logWriter)
	}

	if options.WebSocket == "" {
		if _, err := options.port(); err != nil {
			parser.WriteHelp(os.Stderr)
			exit(1, "\n%s\n", err)
		}
	}

	err = run(options, os.Stdout)
	if err == nil {
		return
	}
	code, err := explain(err)
	exit(code, "sl4a failed: %s\n", err)
}

func exit(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}
