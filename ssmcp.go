// Package ssmcp turns arbitrary web pages into clean Markdown for a small
// set of remote tools: web search, web fetch, and video subtitles.
//
// A page is rendered in a headless browser, its main content region is
// located, residual UI noise is stripped, and the result is converted to
// Markdown.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package ssmcp
