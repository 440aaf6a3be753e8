// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Package services provides suture.Service wrappers for coursepair components.

Each wrapper implements suture.Service and fmt.Stringer:

  - BatchService runs one pipeline batch and reports completion through
    Done and Err. It returns suture.ErrDoNotRestart once the run ends.
  - HTTPServerService translates the blocking ListenAndServe pattern into
    a context-aware Serve with graceful shutdown.
*/
package services
