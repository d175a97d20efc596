// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging sets up the standard logger to write timestamped
// text to w, at debug level if verbose.
func ConfigureLogging(w io.Writer, verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableQuote: true})
	log.SetOutput(w)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
