package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"orgbridge/pkg/server"

	_ "orgbridge/toolsets/org"
	_ "orgbridge/toolsets/records"
)

const version = "0.1.0"

var runServer = server.Run
var exit = os.Exit

func main() {
	ctx := context.Background()

	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	transport := flags.String("transport", "", "transport to serve on (stdio or http)")
	httpPort := flags.Int("http-port", 0, "port for the http transport")
	logLevel := flags.String("log-level", "", "log level")
	workspacePath := flags.String("workspace", "", "comma-separated workspace roots")
	loginURL := flags.String("login-url", "", "handshake endpoint")
	secret := flags.String("secret", "", "handshake secret")
	bypassHandshake := flags.Bool("bypass-handshake", false, "skip remote handshake validation")
	toolsets := flags.String("toolsets", "", "comma-separated toolsets to enable")
	configPath := flags.String("config", "", "config file path")
	readOnly := flags.Bool("read-only", false, "disable write operations")

	_ = flags.Parse(os.Args[1:])

	options := server.Options{
		ConfigPath: *configPath,
		Version:    version,
		Stderr:     os.Stderr,
	}
	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["transport"] {
		options.Transport = *transport
	}
	if set["http-port"] {
		options.HTTPPort = *httpPort
	}
	if set["log-level"] {
		options.LogLevel = *logLevel
	}
	if set["workspace"] {
		options.Workspace = *workspacePath
	}
	if set["login-url"] {
		options.LoginURL = *loginURL
	}
	if set["secret"] {
		options.Secret = *secret
	}
	if set["bypass-handshake"] {
		options.BypassHandshake = *bypassHandshake
	}
	if set["toolsets"] {
		options.Toolsets = parseCSV(*toolsets)
	}
	if set["read-only"] {
		options.ReadOnly = *readOnly
	}

	if err := runServer(ctx, options); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		exit(1)
	}
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
