// Copyright 2026 The Rulegraph Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"errors"
	"fmt"

	"github.com/rulegraph/rulegraph/internal/errs"
)

// StageError records which pipeline stage produced a fatal error: a thin
// wrapper that keeps the original error inspectable while attaching just
// enough context to make the diagnostic useful.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode maps a pipeline error to the process exit code documented in
// the external interfaces: 1 for configuration errors, 2 for every other
// core failure, 0 if err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errs.ErrConfig) {
		return 1
	}
	return 2
}
