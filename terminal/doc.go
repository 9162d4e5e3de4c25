// Package terminal manages the controlling terminal for frame streaming.
//
// Features:
//   - Raw mode with cooked-mode restoration on exit and panic
//   - Alternate screen with hidden cursor and auto-wrap disabled
//   - Raw stdin parsing into key events with standalone ESC detection
//   - SIGWINCH resize detection
//
// Frames are written as pre-built ANSI streams through the io.Writer side of Terminal.
package terminal
