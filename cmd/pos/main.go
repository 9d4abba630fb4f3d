package main

import (
	"flag"
	"log"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/auth"
	"github.com/elitepos/pos-terminal/internal/bulk"
	"github.com/elitepos/pos-terminal/internal/cart"
	"github.com/elitepos/pos-terminal/internal/catalog"
	"github.com/elitepos/pos-terminal/internal/config"
	"github.com/elitepos/pos-terminal/internal/history"
	"github.com/elitepos/pos-terminal/internal/invoice"
	"github.com/elitepos/pos-terminal/internal/logging"
	"github.com/elitepos/pos-terminal/internal/manage"
	"github.com/elitepos/pos-terminal/internal/session"
	"github.com/elitepos/pos-terminal/internal/tui"
)

func main() {
	invoiceDir := flag.String("invoice-dir", "", "write invoices to this directory instead of opening the browser print dialog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, closeLog := logging.New(cfg.LogLevel, cfg.LogFile)
	defer func() {
		if err := closeLog(); err != nil {
			log.Printf("log close error: %v", err)
		}
	}()

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Error("session close error", "error", err)
		}
	}()

	client := api.New(cfg.APIBaseURL, sessions, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, logger)

	renderer, err := invoice.NewRenderer()
	if err != nil {
		log.Fatalf("invoice renderer: %v", err)
	}
	var printer invoice.Printer
	if *invoiceDir != "" {
		printer = invoice.NewFilePrinter(renderer, *invoiceDir)
	} else {
		printer = invoice.NewBrowserPrinter(renderer)
	}

	catalogState := catalog.New(client, cfg.PageSize)
	if cfg.QueryStringSync {
		// resume the last list position handed over in query-string form,
		// e.g. POS_CATALOG_QUERY="q=shirt&sortBy=retailPrice&page=2"
		if v, err := url.ParseQuery(os.Getenv("POS_CATALOG_QUERY")); err == nil {
			catalogState.RestoreQuery(v)
		}
	}

	app := &tui.App{
		Config:  cfg,
		Log:     logger,
		API:     client,
		Auth:    auth.NewFlow(client, sessions),
		Catalog: catalogState,
		Cart:    cart.New(client),
		History: history.New(client, cfg.PageSize),
		Manage:  manage.New(client),
		Bulk:    bulk.New(client),
		Printer: printer,
	}

	logger.Info("starting pos terminal", "api", cfg.APIBaseURL)

	p := tea.NewProgram(tui.NewModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("terminal error", "error", err)
		log.Fatal(err)
	}

	logger.Info("shutdown complete")
}
