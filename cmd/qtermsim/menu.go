package main

import (
	"fmt"
	"strings"

	"qtermsim/gate"
)

// menuItem represents a single gate choice in the menu.
type menuItem struct {
	name   string
	symbol string
	// build returns the gate for an angle; angle is ignored unless
	// needsParam is set.
	build      func(angle float64) gate.Gate
	needsParam bool
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

func fixed(g gate.Gate) func(float64) gate.Gate {
	return func(float64) gate.Gate { return g }
}

// gateMenu defines the gate picker categories and items.
var gateMenu = []menuCategory{
	{
		name: "Single Qubit",
		items: []menuItem{
			{name: "Hadamard", symbol: "H", build: fixed(gate.H)},
			{name: "Pauli-X (NOT)", symbol: "X", build: fixed(gate.X)},
			{name: "Pauli-Y", symbol: "Y", build: fixed(gate.Y)},
			{name: "Pauli-Z", symbol: "Z", build: fixed(gate.Z)},
			{name: "Identity", symbol: "I", build: fixed(gate.I)},
			{name: "Phase (S)", symbol: "S", build: fixed(gate.S)},
			{name: "Phase Dagger (S†)", symbol: "S†", build: fixed(gate.Sdg)},
			{name: "T Gate", symbol: "T", build: fixed(gate.T)},
			{name: "T Dagger (T†)", symbol: "T†", build: fixed(gate.Tdg)},
		},
	},
	{
		name: "Rotation",
		items: []menuItem{
			{name: "Rotate X", symbol: "RX", build: func(a float64) gate.Gate { return gate.Rx(a) }, needsParam: true},
			{name: "Rotate Y", symbol: "RY", build: func(a float64) gate.Gate { return gate.Ry(a) }, needsParam: true},
			{name: "Rotate Z", symbol: "RZ", build: func(a float64) gate.Gate { return gate.Rz(a) }, needsParam: true},
			{name: "Phase Shift", symbol: "P", build: func(a float64) gate.Gate { return gate.P(a) }, needsParam: true},
		},
	},
	{
		name: "Two Qubit",
		items: []menuItem{
			{name: "CNOT", symbol: "●─⊕", build: fixed(gate.CNOT)},
			{name: "Controlled-Z", symbol: "●─●", build: fixed(gate.CZ)},
			{name: "Controlled-H", symbol: "●─H", build: fixed(gate.C(gate.H))},
			{name: "SWAP", symbol: "×─×", build: fixed(gate.SWAP)},
			{name: "C-Rotate X", symbol: "●─RX", build: func(a float64) gate.Gate { return gate.C(gate.Rx(a)) }, needsParam: true},
			{name: "C-Rotate Y", symbol: "●─RY", build: func(a float64) gate.Gate { return gate.C(gate.Ry(a)) }, needsParam: true},
			{name: "C-Rotate Z", symbol: "●─RZ", build: func(a float64) gate.Gate { return gate.C(gate.Rz(a)) }, needsParam: true},
			{name: "C-Phase", symbol: "●─P", build: func(a float64) gate.Gate { return gate.C(gate.P(a)) }, needsParam: true},
		},
	},
	{
		name: "Measurement",
		items: []menuItem{
			{name: "Measure", symbol: "M", build: fixed(gate.Measure)},
		},
	},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range gateMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(gateMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 48)))
	sb.WriteString("\n")

	// Items in the selected category
	cat := gateMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsParam {
			sb.WriteString(dimStyle.Render(" (θ)"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// renderParamInput renders the angle input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Enter Angle"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "θ: %s_", m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Examples: pi/2, 3*pi/4, 1.57"))
	return menuBorderStyle.Render(sb.String())
}
