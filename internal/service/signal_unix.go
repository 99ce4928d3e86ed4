// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build unix

package service

import (
	"os"
	"syscall"
)

// refreshSignals trigger an immediate lookup in watch mode.
var refreshSignals = []os.Signal{syscall.SIGUSR1}
