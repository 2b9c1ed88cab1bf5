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

// Package wire defines the input schema produced by the (out-of-scope)
// source-language AST parser and decodes it from the process's standard
// input. The wire format is Go's own tagged, self-describing binary codec
// (encoding/gob): every value is tagged with its field's type, which is the
// property the external interface calls for, and nothing in the retrieved
// reference pack pulls in a protobuf/flatbuffers/capnproto dependency for an
// equivalent job.
package wire

import (
	"encoding/gob"
	"fmt"
	"io"
)

// RuleKindHint is the per-file metadata the parser attaches: the rule kind
// it believes the file should become, plus any extra edit-tool commands
// that should be emitted once the file's component is built.
type RuleKindHint struct {
	Kind          string
	ExtraCommands []string
}

// ParserOutput is the complete input to the pipeline for one run.
type ParserOutput struct {
	// ClassToClass is the class dependency adjacency list: ClassToClass[c]
	// lists the classes that c depends on. Order is preserved from the
	// parser and drives deterministic traversal downstream.
	ClassToClass map[string][]string

	// FileToRuleHint carries the rule-kind hint contributed by each source
	// file that the parser visited.
	FileToRuleHint map[string]RuleKindHint

	// ClassToFile is the parser-supplied class->file mapping. It is
	// authoritative; SourceFileResolver only resolves classes this map
	// omits.
	ClassToFile map[string]string
}

// Decode reads a single gob-encoded ParserOutput from r. Any bytes after
// that one value are not read.
func Decode(r io.Reader) (*ParserOutput, error) {
	var out ParserOutput
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding parser output: %w", err)
	}
	if out.ClassToClass == nil {
		out.ClassToClass = map[string][]string{}
	}
	if out.FileToRuleHint == nil {
		out.FileToRuleHint = map[string]RuleKindHint{}
	}
	if out.ClassToFile == nil {
		out.ClassToFile = map[string]string{}
	}
	return &out, nil
}

// Encode writes p as gob to w. Used by tests and by tools that produce
// fixtures for the pipeline; the pipeline itself only decodes.
func Encode(w io.Writer, p *ParserOutput) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encoding parser output: %w", err)
	}
	return nil
}
