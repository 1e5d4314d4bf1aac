// Package render turns the Markdown review report into HTML and PDF. PDF
// generation drives a headless Chromium through the DevTools protocol so the
// output matches what a browser would print.
package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Renderer struct {
	chromePath string
	timeout    time.Duration
}

func NewRenderer() *Renderer {
	return &Renderer{
		chromePath: detectChromePath(),
		timeout:    30 * time.Second,
	}
}

// HTML converts the report Markdown into a standalone HTML document with
// print-friendly styling. The consensus meter relies on the monospace block
// styling to keep its box-drawing alignment.
func (r *Renderer) HTML(report, title string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(report), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" +
		"html,body,*{-webkit-print-color-adjust:exact !important;print-color-adjust:exact !important;} " +
		"body{font-family:Georgia,serif;max-width:900px;margin:0 auto;padding:1rem;color:#1c1917;line-height:1.55;} " +
		"h1,h2,h3{font-family:Helvetica,Arial,sans-serif;} " +
		"pre{font-family:'DejaVu Sans Mono',Menlo,monospace;font-size:0.78rem;line-height:1.25;background:#f5f5f4;padding:0.6rem;overflow-x:auto;} " +
		"table{width:100%;border-collapse:collapse;border:1px solid #a8a29e;font-size:0.85rem;} " +
		"th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;} " +
		"thead th{background:#f1f5f9;font-weight:700;} " +
		"@media print{ @page{size:auto;margin:12mm;} body{padding:0;} }" +
		"</style></head><body><div class='report-html'>" + content.String() + "</div></body></html>", nil
}

// PDF renders the report through headless Chromium and returns the PDF bytes.
func (r *Renderer) PDF(ctx context.Context, report, title string) ([]byte, error) {
	htmlDoc, err := r.HTML(report, title)
	if err != nil {
		return nil, err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			footer := `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
				`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate(`<div></div>`).
				WithFooterTemplate(footer).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.75).
				WithMarginLeft(0.45).
				WithMarginRight(0.45).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return pdf, nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
