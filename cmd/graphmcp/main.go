package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"graphmcp"
	"graphmcp/internal/client"
	"graphmcp/internal/compiler"
	"graphmcp/internal/config"
	"graphmcp/internal/httpserver"
	"graphmcp/internal/introspection"
	"graphmcp/internal/logging"
	"graphmcp/internal/monitoring"
	"graphmcp/internal/server"
	"graphmcp/internal/version"
)

func main() {
	logger := logging.NewLoggerWithService("graphmcp")
	config.LoadEnv(logger)

	logger.WithFields(logging.Fields{
		"version": version.Version,
		"commit":  version.GitCommit,
	}).Info("Starting GraphQL MCP bridge")

	endpoint := config.RequireEnv("GRAPHQL_ENDPOINT")

	gqlClient := client.New(client.Config{
		URL:                endpoint,
		Headers:            parseHeaders(config.GetEnv("GRAPHQL_HEADERS", "")),
		Timeout:            config.GetEnvDuration("GRAPHQL_TIMEOUT", client.DefaultTimeout),
		InsecureSkipVerify: config.GetEnvBool("GRAPHQL_TLS_SKIP_VERIFY", false),
		BearerToken:        config.GetEnv("GRAPHQL_BEARER_TOKEN", ""),
		Logger:             logger,
	})

	schema := loadSchema(gqlClient, logger)

	metricsCollector := monitoring.NewMetricsCollector("graphmcp", version.Version, version.GitCommit)

	mcpServer := server.New(server.Config{
		Name:    config.GetEnv("MCP_SERVER_NAME", "graphmcp"),
		Logger:  logger,
		Metrics: metricsCollector,
	})

	tools, err := graphmcp.AddRemoteTools(mcpServer, schema, gqlClient,
		config.GetEnvBool("FORWARD_AUTH", false),
		graphmcp.Options{
			AllowMutations:  config.GetEnvBool("ALLOW_MUTATIONS", false),
			SelectionDepth:  config.GetEnvInt("SELECTION_DEPTH", compiler.DefaultRemoteDepth),
			HiddenDirective: config.GetEnv("HIDDEN_DIRECTIVE", "hidden"),
			Hidden:          compiler.ParseHiddenArgs(config.GetEnv("HIDDEN_ARGS", "")),
		})
	if err != nil {
		logger.WithError(err).Fatal("Tool synthesis failed")
	}
	logger.WithField("tools", len(tools)).Info("Tools compiled from schema")

	if config.GetEnv("MCP_TRANSPORT", "http") == "stdio" {
		if err := mcpServer.RunStdio(context.Background()); err != nil {
			logger.WithError(err).Fatal("Stdio transport failed")
		}
		return
	}

	app := httpserver.SetupRouter(logger, "graphmcp", metricsCollector)
	app.Any("/mcp", gin.WrapH(mcpServer.HTTPHandler()))

	serverConfig := httpserver.DefaultConfig("graphmcp", "18080")
	if err := httpserver.Start(serverConfig, app, logger); err != nil {
		logger.Fatal("Failed to start server: " + err.Error())
	}
}

// parseHeaders parses comma-separated "Name=Value" pairs into extra
// request headers for the upstream endpoint.
func parseHeaders(raw string) http.Header {
	headers := http.Header{}
	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		headers.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return headers
}

// loadSchema reads the schema from inline SDL or a local SDL file when
// configured, otherwise it introspects the remote endpoint. Either
// failure is fatal: without a schema there are no tools to serve.
func loadSchema(gqlClient *client.Client, logger logging.Logger) *ast.Schema {
	if sdl := config.GetEnv("GRAPHQL_SCHEMA", ""); sdl != "" {
		schema, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "inline-schema.graphql", Input: sdl})
		if gqlErr != nil {
			logger.WithError(gqlErr).Fatal("Failed to parse inline schema")
		}
		logger.Info("Schema loaded from environment")
		return schema
	}

	if path := config.GetEnv("GRAPHQL_SCHEMA_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.WithError(err).WithField("file", path).Fatal("Failed to read schema file")
		}
		schema, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: path, Input: string(raw)})
		if gqlErr != nil {
			logger.WithError(gqlErr).WithField("file", path).Fatal("Failed to parse schema file")
		}
		logger.WithField("file", path).Info("Schema loaded from file")
		return schema
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	schema, err := introspection.Load(ctx, gqlClient, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to introspect remote schema")
	}
	return schema
}
