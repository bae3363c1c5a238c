// ABOUTME: Startup banner for serve mode, styled with lipgloss.
// ABOUTME: Shows the listen URL, served root, fallback file, and the files available at the root.
package main

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/2389-research/assetserve/web"
	"github.com/charmbracelet/lipgloss"
)

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("170"))
	bannerLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(10)
	bannerURLStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	bannerHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// baseURL turns a listen address into a browsable URL.
func baseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// printBanner writes the startup summary for srv listening on addr.
func printBanner(w io.Writer, srv *web.Server, addr string) {
	url := baseURL(addr)

	var b strings.Builder
	b.WriteString(bannerTitleStyle.Render("Static asset server started"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%s\n", bannerLabelStyle.Render("Address"), bannerURLStyle.Render(url))
	fmt.Fprintf(&b, "%s%s\n", bannerLabelStyle.Render("Serving"), srv.Root())
	fmt.Fprintf(&b, "%s%s\n", bannerLabelStyle.Render("Default"), srv.FallbackFile())

	files, err := web.AvailableFiles(srv.Root())
	if err == nil && len(files) > 0 {
		b.WriteString("\nAvailable files:\n")
		for _, name := range files {
			fmt.Fprintf(&b, "  - %s\n", bannerURLStyle.Render(url+"/"+name))
		}
	}

	b.WriteString("\n")
	b.WriteString(bannerHintStyle.Render("Press Ctrl+C to stop the server"))
	b.WriteString("\n")
	fmt.Fprint(w, b.String())
}
