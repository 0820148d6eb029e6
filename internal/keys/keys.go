// Package keys provides string constants for Bubble Tea v2 key press events.
//
// These constants are derived from tea.KeyPressMsg{...}.String() so they
// always match what the runtime reports. Single-character keys like "n" or
// "j" are left as literals.
package keys

import tea "charm.land/bubbletea/v2"

// Navigation keys
var (
	Up     = tea.KeyPressMsg{Code: tea.KeyUp}.String()     // "up"
	Down   = tea.KeyPressMsg{Code: tea.KeyDown}.String()   // "down"
	Home   = tea.KeyPressMsg{Code: tea.KeyHome}.String()   // "home"
	End    = tea.KeyPressMsg{Code: tea.KeyEnd}.String()    // "end"
	PgUp   = tea.KeyPressMsg{Code: tea.KeyPgUp}.String()   // "pgup"
	PgDown = tea.KeyPressMsg{Code: tea.KeyPgDown}.String() // "pgdown"
)

// Action keys
var (
	Enter     = tea.KeyPressMsg{Code: tea.KeyEnter}.String()                      // "enter"
	CtrlEnter = (tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModCtrl}).String()  // "ctrl+enter"
	AltEnter  = (tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt}).String()   // "alt+enter"
	Tab       = tea.KeyPressMsg{Code: tea.KeyTab}.String()                        // "tab"
	ShiftTab  = (tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}).String()   // "shift+tab"
	Delete    = tea.KeyPressMsg{Code: tea.KeyDelete}.String()                     // "delete"
	Escape    = tea.KeyPressMsg{Code: tea.KeyEscape}.String()                     // "esc"
	F1        = tea.KeyPressMsg{Code: tea.KeyF1}.String()                         // "f1"
	F2        = tea.KeyPressMsg{Code: tea.KeyF2}.String()                         // "f2"
)

// Ctrl combinations
var (
	CtrlC      = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String()                // "ctrl+c"
	CtrlS      = (tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}).String()                // "ctrl+s"
	CtrlO      = (tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl}).String()                // "ctrl+o"
	CtrlP      = (tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl}).String()                // "ctrl+p"
	CtrlT      = (tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl}).String()                // "ctrl+t"
	CtrlN      = (tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}).String()                // "ctrl+n"
	CtrlW      = (tea.KeyPressMsg{Code: 'w', Mod: tea.ModCtrl}).String()                // "ctrl+w"
	CtrlShiftC = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl | tea.ModShift}).String() // "ctrl+shift+c"
	CtrlLeft   = (tea.KeyPressMsg{Code: tea.KeyLeft, Mod: tea.ModCtrl}).String()        // "ctrl+left"
	CtrlRight  = (tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModCtrl}).String()       // "ctrl+right"
)
