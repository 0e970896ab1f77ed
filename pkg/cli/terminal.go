/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"os"

	"golang.org/x/term"
)

// defaultSeparatorWidth is used when stdout is not a terminal or its
// width cannot be determined.
const defaultSeparatorWidth = 60

// IsInteractive reports whether stdin is attached to a terminal - the
// replifo-ctl REPL uses this to decide whether to print its banner and
// prompt for confirmation at all, rather than block reading a pipe.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsOutputInteractive reports whether stdout is attached to a
// terminal. colorsEnabled's default is derived from this, so output
// piped to a file or another process never carries ANSI escapes.
func IsOutputInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the current width of stdout's terminal, or
// defaultSeparatorWidth if stdout is not a terminal.
func TerminalWidth() int {
	if !IsOutputInteractive() {
		return defaultSeparatorWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultSeparatorWidth
	}
	return w
}

// FullSeparator returns a horizontal line sized to the terminal's
// current width.
func FullSeparator() string {
	return Separator(TerminalWidth())
}
