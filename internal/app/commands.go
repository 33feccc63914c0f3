package app

import (
	"errors"
	"fmt"
	"strings"
)

// commandKind names a : command.
type commandKind int

const (
	cmdOpen commandKind = iota + 1
	cmdTabNew
	cmdTabClose
	cmdBookmark
	cmdBookmarks
	cmdTheme
	cmdBack
	cmdForward
	cmdRefresh
	cmdQuit
)

// command is a parsed : command line.
type command struct {
	kind commandKind
	arg  string
}

var errEmptyCommand = errors.New("empty command")

// commandNames maps every accepted spelling to its command.
var commandNames = map[string]commandKind{
	"o": cmdOpen, "open": cmdOpen, "e": cmdOpen, "edit": cmdOpen,
	"tabnew": cmdTabNew, "tabe": cmdTabNew, "tabedit": cmdTabNew, "tab": cmdTabNew,
	"tabclose": cmdTabClose, "tabc": cmdTabClose,
	"bookmark": cmdBookmark, "bm": cmdBookmark,
	"bookmarks": cmdBookmarks, "bms": cmdBookmarks,
	"theme":   cmdTheme,
	"back":    cmdBack,
	"forward": cmdForward,
	"refresh": cmdRefresh, "reload": cmdRefresh,
	"q": cmdQuit, "quit": cmdQuit, "qa": cmdQuit,
}

// parseCommand splits a command line into its name and the rest of the line.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if line == "" {
		return command{}, errEmptyCommand
	}
	name, arg, _ := strings.Cut(line, " ")
	kind, ok := commandNames[strings.ToLower(name)]
	if !ok {
		return command{}, fmt.Errorf("unknown command %q", name)
	}
	arg = strings.TrimSpace(arg)
	if kind == cmdOpen && arg == "" {
		return command{}, fmt.Errorf("usage: :%s <url>", name)
	}
	return command{kind: kind, arg: arg}, nil
}
