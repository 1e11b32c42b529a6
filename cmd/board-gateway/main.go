// ABOUTME: Entry point for board-gateway, the HTTP front for the board backend service
// ABOUTME: Provides serve, init, health and operation commands against a running gateway

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/board-gateway/internal/config"
	"github.com/2389/board-gateway/internal/gateway"
	"github.com/2389/board-gateway/internal/logging"
	"github.com/2389/board-gateway/internal/operation"
	"github.com/2389/board-gateway/internal/tracing"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
 _                         _                   _
| |__   ___   __ _ _ __ __| |   __ _  __ _| |_ _____      ____ _ _   _
| '_ \ / _ \ / _' | '__/ _' |  / _' |/ _' | __/ _ \ \ /\ / / _' | | | |
| |_) | (_) | (_| | | | (_| | | (_| | (_| | ||  __/\ V  V / (_| | |_| |
|_.__/ \___/ \__,_|_|  \__,_|  \__, |\__,_|\__\___| \_/\_/ \__,_|\__, |
                               |___/                             |___/
`

// getConfigPath returns the path to the gateway config file.
// Priority: BOARD_GATEWAY_CONFIG env var > XDG_CONFIG_HOME/board/gateway.yaml > ~/.config/board/gateway.yaml
func getConfigPath() string {
	if envPath := os.Getenv("BOARD_GATEWAY_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "gateway.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "board", "gateway.yaml")
}

// loadConfig reads the config file, falling back to the environment when the
// file does not exist.
func loadConfig(path string) (*config.Config, string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg, err := config.FromEnv()
		if err != nil {
			return nil, "", fmt.Errorf("loading config from environment: %w", err)
		}
		return cfg, "environment", nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: board-gateway <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                  Start the gateway server")
		fmt.Println("  init                   Create a new config file interactively")
		fmt.Println("  health                 Check gateway health")
		fmt.Println("  ready                  Check backend readiness through the gateway")
		fmt.Println("  operations             List the operations the gateway exposes")
		fmt.Println("  call <operation> [json] Invoke an operation on a running gateway")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "health":
		err = runHealth(ctx, "/health")
	case "ready":
		err = runHealth(ctx, "/health/ready")
	case "operations":
		err = runOperations(ctx)
	case "call":
		err = runCall(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, source, err := loadConfig(getConfigPath())
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, os.Stdout)

	flush, err := tracing.Init(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("initializing sentry: %w", err)
	}
	defer flush()

	// Startup info
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", source)
	green.Print("    ▶ ")
	fmt.Printf("Backend:   %s", cfg.Backend.Endpoint())
	if cfg.Backend.Insecure {
		yellow.Print(" [insecure]")
	}
	if cfg.Backend.AuthorityOverride != "" {
		gray.Printf(" (authority %s)", cfg.Backend.AuthorityOverride)
	}
	fmt.Println()
	if cfg.Server.HTTPAddr != "" && !cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	}

	if cfg.Tailscale.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Tailscale: ")
		cyan.Print(cfg.Tailscale.Hostname)
		if cfg.Tailscale.HTTPS {
			yellow.Print(" [https]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Print(" (ephemeral)")
		}
		fmt.Println()
	}

	fmt.Println()

	logger.Info("starting board-gateway",
		"config", source,
		"backend", cfg.Backend.Endpoint(),
		"insecure", cfg.Backend.Insecure,
		"authority_override", cfg.Backend.AuthorityOverride,
		"call_timeout", cfg.Backend.CallTimeout,
		"http_addr", cfg.Server.HTTPAddr,
	)

	gw, err := gateway.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return gw.Run(ctx)
}

// gatewayURL returns the base URL of a running gateway.
func gatewayURL() (string, error) {
	if u := os.Getenv("BOARD_GATEWAY_URL"); u != "" {
		return strings.TrimRight(u, "/"), nil
	}

	cfg, _, err := loadConfig(getConfigPath())
	if err != nil {
		return "", err
	}
	if cfg.Server.HTTPAddr == "" {
		return "", fmt.Errorf("server.http_addr is not set; use BOARD_GATEWAY_URL")
	}
	return "http://" + cfg.Server.HTTPAddr, nil
}

// doRequest sends a request to the gateway and returns the status and body.
func doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	base, err := gatewayURL()
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, data, nil
}

func runHealth(ctx context.Context, path string) error {
	status, body, err := doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d: %s", status, strings.TrimSpace(string(body)))
	}

	fmt.Println(strings.TrimSpace(string(body)))
	return nil
}

func fetchOperations(ctx context.Context) ([]operation.Operation, error) {
	status, body, err := doRequest(ctx, http.MethodGet, "/api/operations", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing operations: status %d", status)
	}

	var resp gateway.OperationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding operations: %w", err)
	}
	return resp.Operations, nil
}

func runOperations(ctx context.Context) error {
	ops, err := fetchOperations(ctx)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	gray := color.New(color.FgHiBlack)
	for _, op := range ops {
		bold.Printf("%-16s", op.Name)
		fmt.Printf(" %-9s", op.Kind)
		if len(op.Input) > 0 {
			gray.Printf(" {%s}", strings.Join(op.Input, ", "))
		}
		fmt.Println()
	}
	return nil
}

// runCall invokes one operation. Queries go out as GET with ?input=, mutations as POST.
func runCall(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: board-gateway call <operation> [json]")
	}
	name := args[0]
	input := "{}"
	if len(args) > 1 {
		input = args[1]
	}

	ops, err := fetchOperations(ctx)
	if err != nil {
		return err
	}

	var kind operation.Kind
	for _, op := range ops {
		if op.Name == name {
			kind = op.Kind
		}
	}
	if kind == "" {
		return fmt.Errorf("%w: %s", operation.ErrUnknownOperation, name)
	}

	var status int
	var body []byte
	path := "/api/" + url.PathEscape(name)
	if kind == operation.KindQuery {
		status, body, err = doRequest(ctx, http.MethodGet, path+"?input="+url.QueryEscape(input), nil)
	} else {
		status, body, err = doRequest(ctx, http.MethodPost, path, strings.NewReader(input))
	}
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") != nil {
		pretty.Reset()
		pretty.Write(body)
	}
	fmt.Println(strings.TrimSpace(pretty.String()))

	if status != http.StatusOK {
		return fmt.Errorf("%s failed: status %d", name, status)
	}
	return nil
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("board-gateway configuration setup")
	fmt.Println("=================================")
	fmt.Println()

	outputFile := prompt(reader, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println("\n--- Server Configuration ---")
	httpAddr := prompt(reader, "HTTP address", config.DefaultHTTPAddr)

	fmt.Println("\n--- Backend Configuration ---")
	host := prompt(reader, "Backend host", config.DefaultBackendHost)
	port := prompt(reader, "Backend port", fmt.Sprint(config.DefaultBackendPort))
	insecureMode := isYes(prompt(reader, "Disable TLS (insecure)?", "no"))
	var caEnv, authority string
	if !insecureMode {
		caEnv = prompt(reader, "Environment variable holding the base64 CA bundle", "BOARD_CA_BUNDLE")
		authority = prompt(reader, "Authority override (leave empty for none)", "")
	}
	callTimeout := prompt(reader, "Per-call timeout", config.DefaultCallTimeout.String())

	fmt.Println("\n--- Tailscale Configuration ---")
	tailscaleEnabled := isYes(prompt(reader, "Enable Tailscale?", "no"))

	var tsHostname, tsAuthKey string
	var tsEphemeral, tsHTTPS bool
	if tailscaleEnabled {
		tsHostname = prompt(reader, "Tailscale hostname", "board-gateway")
		tsAuthKey = prompt(reader, "Tailscale auth key (leave empty for interactive)", "")
		tsEphemeral = isYes(prompt(reader, "Ephemeral node?", "no"))
		tsHTTPS = isYes(prompt(reader, "Serve HTTPS with Tailscale certificates?", "no"))
	}

	fmt.Println("\n--- Logging Configuration ---")
	logLevel := prompt(reader, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(reader, "Log format (text/json)", "text")

	var cfg strings.Builder
	cfg.WriteString("# board-gateway configuration\n")
	cfg.WriteString("# Generated by board-gateway init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: \"%s\"\n", httpAddr))
	cfg.WriteString("\n")

	cfg.WriteString("backend:\n")
	cfg.WriteString(fmt.Sprintf("  host: \"%s\"\n", host))
	cfg.WriteString(fmt.Sprintf("  port: %s\n", port))
	cfg.WriteString(fmt.Sprintf("  insecure: %t\n", insecureMode))
	if caEnv != "" {
		cfg.WriteString(fmt.Sprintf("  ca_cert: \"${%s}\"\n", caEnv))
	}
	if authority != "" {
		cfg.WriteString(fmt.Sprintf("  authority_override: \"%s\"\n", authority))
	}
	cfg.WriteString(fmt.Sprintf("  call_timeout: \"%s\"\n", callTimeout))
	cfg.WriteString("\n")

	cfg.WriteString("tailscale:\n")
	cfg.WriteString(fmt.Sprintf("  enabled: %t\n", tailscaleEnabled))
	if tailscaleEnabled {
		cfg.WriteString(fmt.Sprintf("  hostname: \"%s\"\n", tsHostname))
		if tsAuthKey != "" {
			cfg.WriteString(fmt.Sprintf("  auth_key: \"%s\"\n", tsAuthKey))
		}
		cfg.WriteString(fmt.Sprintf("  ephemeral: %t\n", tsEphemeral))
		cfg.WriteString(fmt.Sprintf("  https: %t\n", tsHTTPS))
	}
	cfg.WriteString("\n")

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: \"%s\"\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: \"%s\"\n", logFormat))
	cfg.WriteString("\n")

	cfg.WriteString("metrics:\n")
	cfg.WriteString("  enabled: true\n")
	cfg.WriteString(fmt.Sprintf("  path: \"%s\"\n", config.DefaultMetricsPath))
	cfg.WriteString("\n")

	cfg.WriteString("sentry:\n")
	cfg.WriteString("  dsn: \"${SENTRY_DSN}\"\n")
	cfg.WriteString("  traces_sample_rate: 0.2\n")

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("\nConfig written to %s\n", outputFile)
	fmt.Println("\nTo start the server:")
	fmt.Printf("  board-gateway serve\n")

	return nil
}

func isYes(s string) bool {
	s = strings.ToLower(s)
	return s == "yes" || s == "y"
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s [%s]: ", question, defaultVal)
	} else {
		fmt.Printf("%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		// On EOF or error, return default
		fmt.Println()
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}
