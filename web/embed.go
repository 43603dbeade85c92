// Package web embeds the dashboard's HTML templates and static assets.
package web

import "embed"

// TemplatesFS holds the page and its partials: index.html, dashboard and
// add_form.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the small notification script.
//
//go:embed static/*
var StaticFS embed.FS
