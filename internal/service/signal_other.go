// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build !unix

package service

import "os"

// refreshSignals is empty where SIGUSR1 does not exist, watch mode then only refreshes on its interval.
var refreshSignals []os.Signal
