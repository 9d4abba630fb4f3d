package invoice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/elitepos/pos-terminal/internal/logging"
	"github.com/elitepos/pos-terminal/internal/models"
)

// Printer turns an invoice into a printable or exportable document.
// The browser print dialog is an environment side effect, so it lives
// behind this interface; non-graphical hosts substitute FilePrinter.
type Printer interface {
	Print(ctx context.Context, inv *models.Invoice) error
}

// BrowserPrinter serves the rendered document once over a loopback HTTP
// server and opens the system browser on it. The page triggers the print
// dialog itself and closes when done; the server shuts down after the
// single request or the timeout, whichever comes first.
type BrowserPrinter struct {
	renderer *Renderer
	timeout  time.Duration
}

func NewBrowserPrinter(r *Renderer) *BrowserPrinter {
	return &BrowserPrinter{renderer: r, timeout: 2 * time.Minute}
}

func (p *BrowserPrinter) Print(ctx context.Context, inv *models.Invoice) error {
	doc, err := p.renderer.Render(inv)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	served := make(chan struct{}, 1)
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/invoice", func(c echo.Context) error {
		defer func() {
			select {
			case served <- struct{}{}:
			default:
			}
		}()
		return c.HTMLBlob(http.StatusOK, doc)
	})
	e.Listener = ln
	go func() {
		_ = e.Start("")
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	url := fmt.Sprintf("http://%s/invoice", ln.Addr().String())
	logging.FromContext(ctx).Info("opening print window", "order", inv.OrderID, "url", url)
	if err := openBrowser(url); err != nil {
		return fmt.Errorf("open print window: %w", err)
	}

	select {
	case <-served:
		// give the browser a moment to finish loading the document
		time.Sleep(500 * time.Millisecond)
		return nil
	case <-time.After(p.timeout):
		return fmt.Errorf("print window was never opened")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// FilePrinter writes the rendered HTML into a directory, one file per
// order, for hosts without a browser.
type FilePrinter struct {
	renderer *Renderer
	dir      string
}

func NewFilePrinter(r *Renderer, dir string) *FilePrinter {
	return &FilePrinter{renderer: r, dir: dir}
}

func (p *FilePrinter) Print(_ context.Context, inv *models.Invoice) error {
	doc, err := p.renderer.Render(inv)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create invoice dir: %w", err)
	}
	path := filepath.Join(p.dir, fmt.Sprintf("invoice-%s.html", inv.OrderID))
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write invoice: %w", err)
	}
	return nil
}
