package report

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// pdfFooter numbers the pages; playwright fills the pageNumber and
// totalPages spans.
const pdfFooter = `<div style="font-size:8px;width:100%;text-align:center;color:#888">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// pdfOptions lays the dashboard out on landscape A4 so the table keeps its
// four columns readable, with page numbers in the footer.
func pdfOptions(pdfPath string) playwright.PagePdfOptions {
	return playwright.PagePdfOptions{
		Path:                playwright.String(pdfPath),
		Format:              playwright.String("A4"),
		Landscape:           playwright.Bool(true),
		PrintBackground:     playwright.Bool(true),
		DisplayHeaderFooter: playwright.Bool(true),
		HeaderTemplate:      playwright.String("<div></div>"),
		FooterTemplate:      playwright.String(pdfFooter),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Right:  playwright.String("10mm"),
			Bottom: playwright.String("16mm"),
			Left:   playwright.String("10mm"),
		},
	}
}

// RenderPDF prints a saved dashboard page with a headless Chromium,
// installing the browser on first use. The page is rendered with print
// media so the stylesheet's page-break rules apply.
func RenderPDF(ctx context.Context, htmlPath, pdfPath string) error {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("could not get absolute path: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("could not install chromium for playwright: %w", err)
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(true)})
	if err != nil {
		return fmt.Errorf("could not launch chromium: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("could not open dashboard page: %w", err)
	}
	defer page.Close()

	if _, err = page.Goto("file://"+absPath, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("could not load dashboard '%s' with %w", htmlPath, err)
	}
	if err := page.EmulateMedia(playwright.PageEmulateMediaOptions{Media: playwright.MediaPrint}); err != nil {
		return fmt.Errorf("could not switch to print media: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err = page.PDF(pdfOptions(pdfPath)); err != nil {
		return fmt.Errorf("could not print dashboard to '%s' with %w", pdfPath, err)
	}
	slog.Debug("dashboard printed", "html", htmlPath, "pdf", pdfPath)
	return nil
}
