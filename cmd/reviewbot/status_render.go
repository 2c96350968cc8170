package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := "[" + statusKindLabel(kind) + "]"
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderCheckReport(report checkReport, colorize bool) []string {
	var lines []string

	lines = append(lines, renderSectionHeader("Configuration", colorize)...)
	configMsg := report.ConfigPath
	configKind := statusOK
	if !report.ConfigExists {
		configKind = statusInfo
		configMsg = "defaults and environment (no file at " + report.ConfigPath + ")"
	}
	lines = append(lines,
		renderStatusLine("Config", configKind, configMsg, colorize),
		renderStatusLine("Transport", statusInfo, report.Transport, colorize),
		renderStatusLine("Language", statusInfo, report.Language, colorize),
	)
	if len(report.Missing) == 0 {
		lines = append(lines, renderStatusLine("Credentials", statusOK, "all set", colorize))
	} else {
		for _, key := range report.Missing {
			lines = append(lines, renderStatusLine("Credentials", statusError, "missing "+key, colorize))
		}
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Preflight", colorize)...)
	for _, result := range report.Preflight {
		kind := statusOK
		if !result.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Agent", colorize)...)
	switch {
	case report.LockErr != nil:
		lines = append(lines, renderStatusLine("Running", statusWarn, report.LockErr.Error(), colorize))
	case report.AgentRunning:
		lines = append(lines, renderStatusLine("Running", statusOK, "yes (lock held)", colorize))
	default:
		lines = append(lines, renderStatusLine("Running", statusInfo, yesNo(false), colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Review API", colorize)...)
	lines = append(lines, renderStatusLine("Endpoint", statusInfo, report.Endpoint, colorize))
	switch {
	case report.Skipped:
		lines = append(lines, renderStatusLine("Request", statusWarn, "skipped; review API token is not set", colorize))
	case report.FetchErr != nil:
		lines = append(lines, renderStatusLine("Request", statusError, report.FetchErr.Error(), colorize))
	default:
		since := report.Since.Local().Format("2006-01-02 15:04")
		lines = append(lines, renderStatusLine("Request", statusOK, fmt.Sprintf("%d item(s) since %s", report.Count, since), colorize))
		if report.Latest != "" {
			lines = append(lines, renderStatusLine("Latest", statusInfo, report.Latest, colorize))
		} else {
			lines = append(lines, renderStatusLine("Latest", statusInfo, "no status changes", colorize))
		}
	}
	return lines
}
