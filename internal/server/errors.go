// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package server

import "errors"

var errNoServersAreCreated = errors.New("no transport servers were created")
