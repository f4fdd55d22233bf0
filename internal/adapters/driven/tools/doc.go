// Package tools provides the built-in capability registry and its
// handlers: weather lookups, arithmetic and the current time. Tools are
// registered at startup under fixed names and invoked by specialists
// through the driven.ToolRegistry port.
package tools
