// Package ui provides the main entry point for the UI.
package ui

import (
	"github.com/palemoky/bingo-client/internal/host"
	"github.com/palemoky/bingo-client/internal/ui/common"
	"github.com/palemoky/bingo-client/internal/ui/input"
	"github.com/palemoky/bingo-client/internal/ui/model"
	"github.com/palemoky/bingo-client/internal/ui/view"
)

// NewBingoModel creates a fully wired BingoModel. Feed it with
// coordinator.OnSnapshot(m.Publish).
func NewBingoModel(ctrl model.Controller, scheme host.ColorScheme) *model.BingoModel {
	m := model.NewBingoModel(ctrl, common.NewStyles(scheme))
	m.SetViewRenderer(view.CreateViewRenderer())
	m.SetKeyHandler(input.HandleKeyPress)
	return m
}
