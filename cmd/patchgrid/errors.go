/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import "fmt"

// cliError carries one of the exit codes in spec §6's inspect contract.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) ExitCode() int { return e.code }

func newCliError(code int, format string, args ...interface{}) error {
	return &cliError{code: code, msg: fmt.Sprintf(format, args...)}
}

const (
	exitOK = iota
	exitFileNotFound
	exitWrongExtension
	exitInvalidTimestep
	exitInvalidX
	exitInvalidY
	exitUnknownVariable
	exitOutOfBounds
	exitCorruptFile
)
