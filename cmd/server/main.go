// Package main is the entry point for the nebulon-mcp server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/auth"
	"github.com/storageops/nebulon-mcp/internal/config"
	"github.com/storageops/nebulon-mcp/internal/graphql"
	"github.com/storageops/nebulon-mcp/internal/keyvalue"
	"github.com/storageops/nebulon-mcp/internal/recipes"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/session"
	"github.com/storageops/nebulon-mcp/internal/support"
	"github.com/storageops/nebulon-mcp/internal/token"
	"github.com/storageops/nebulon-mcp/internal/tools"
	"github.com/storageops/nebulon-mcp/internal/vsphere"
)

const defaultConfigPath = "/config/config.yaml"

func main() {
	cfg := loadConfig()
	config.ApplyEnvOverrides(cfg)

	tokenBefore := cfg.Server.AuthToken
	authToken, err := config.EnsureAuthToken(cfg)
	if err != nil {
		log.Printf("warning: could not generate auth token: %v — running without authentication", err)
	} else if tokenBefore == "" {
		log.Printf("generated auth token (set NEBULON_MCP_AUTH_TOKEN to persist): %s", authToken)
	}

	// Open audit log writer if enabled.
	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Printf("warning: could not open audit log %q: %v — audit logging disabled", cfg.Audit.LogPath, err)
		} else {
			auditLogger = safety.NewAuditLogger(f)
			defer f.Close()
		}
	}

	// Build safety components.
	npodFilter := safety.NewFilter(
		cfg.Safety.NPods.Allowlist,
		cfg.Safety.NPods.Denylist,
	)
	keyValueFilter := safety.NewFilter(
		cfg.Safety.KeyValues.Allowlist,
		cfg.Safety.KeyValues.Denylist,
	)

	keyValueConfirm := safety.NewConfirmationTracker(keyvalue.DestructiveTools)
	vsphereConfirm := safety.NewConfirmationTracker(vsphere.DestructiveTools)

	// Build the GraphQL client and establish the Nebulon ON session.
	client, err := graphql.NewHTTPClient(cfg.API)
	if err != nil {
		log.Fatalf("failed to create GraphQL client: %v", err)
	}

	sessionMgr := session.NewGraphQLSessionManager(client)
	if cfg.API.Username != "" {
		loginCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		results, err := sessionMgr.Login(loginCtx, cfg.API.Username, cfg.API.Password)
		cancel()
		if err != nil {
			log.Fatalf("failed to log in to Nebulon ON: %v", err)
		}
		if !results.Success {
			log.Fatalf("Nebulon ON rejected login: %s", results.Message)
		}
		log.Printf("logged in to organization %q (session expires %s)", results.OrganizationName, results.Expiration)
	} else {
		log.Printf("warning: no Nebulon credentials configured — set NEBULON_USERNAME and NEBULON_PASSWORD")
	}

	// Build resource managers. Mutations that reconfigure SPUs share one
	// token engine wired to the recipe poller.
	recipeMgr := recipes.NewGraphQLRecipeManager(client)
	engine := &token.Engine{
		Deliverer: token.NewHTTPDeliverer(time.Duration(cfg.Token.DeliveryTimeout) * time.Second),
		Poller:    recipeMgr,
		Options: token.Options{
			PollInterval: time.Duration(cfg.Token.RecipePollInterval) * time.Second,
			MaxAttempts:  cfg.Token.RecipeMaxAttempts,
		},
	}

	keyValueMgr := keyvalue.NewGraphQLKeyValueManager(client)
	vsphereMgr := vsphere.NewGraphQLVsphereManager(client, engine)
	supportMgr := support.NewGraphQLSupportManager(client)

	// Build MCP server.
	mcpServer := server.NewMCPServer(
		"nebulon-mcp",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	// Register all tools.
	var registrations []tools.Registration
	registrations = append(registrations, session.SessionTools(sessionMgr, auditLogger)...)
	registrations = append(registrations, keyvalue.KeyValueTools(keyValueMgr, keyValueFilter, keyValueConfirm, auditLogger)...)
	registrations = append(registrations, recipes.RecipeTools(recipeMgr, auditLogger)...)
	registrations = append(registrations, vsphere.VsphereTools(vsphereMgr, npodFilter, vsphereConfirm, auditLogger)...)
	registrations = append(registrations, support.SupportTools(supportMgr, auditLogger)...)

	tools.RegisterAll(mcpServer, registrations)

	// Build Streamable HTTP server and wrap with auth middleware.
	httpHandler := server.NewStreamableHTTPServer(mcpServer)
	authMiddleware := auth.NewAuthMiddleware(cfg.Server.AuthToken)
	wrappedHandler := authMiddleware(httpHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           wrappedHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("nebulon-mcp listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}

	// End the Nebulon session before exiting.
	if cfg.API.Username != "" {
		logoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := sessionMgr.Logout(logoutCtx); err != nil {
			log.Printf("logout error: %v", err)
		}
		cancel()
	}
	log.Println("server stopped")
}

// loadConfig attempts to read the config file from the path specified by
// NEBULON_MCP_CONFIG_PATH or the default /config/config.yaml. If the file
// cannot be read, DefaultConfig is returned.
func loadConfig() *config.Config {
	path := os.Getenv("NEBULON_MCP_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("could not load config from %q (%v), using defaults", path, err)
		return config.DefaultConfig()
	}

	log.Printf("loaded config from %q", path)
	return cfg
}
