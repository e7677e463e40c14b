// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"modernc.org/strutil"
)

// LoadTriples reads (user, item, rating) triples from delimited text. Extra columns
// such as timestamps are ignored. The separator may be longer than one character,
// e.g. "::". Codes repeated across lines share a single string.
func LoadTriples(r io.Reader, sep string, header bool) ([]Triple, error) {
	if sep == "" {
		return nil, errors.NotValidf("empty separator")
	}
	var (
		triples []Triple
		err     error
		codes   = strutil.NewPool()
	)
	sc := bufio.NewScanner(r)
	if readErr := readLines(sc, sep, func(lineNumber int, fields []string) bool {
		if header && lineNumber == 0 {
			return true
		}
		if len(fields) < 3 {
			err = errors.NotValidf("line %d with %d fields", lineNumber+1, len(fields))
			return false
		}
		value, parseErr := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if parseErr != nil {
			err = errors.Annotatef(parseErr, "line %d", lineNumber+1)
			return false
		}
		triples = append(triples, Triple{
			UserCode: codes.Align(strings.TrimSpace(fields[0])),
			ItemCode: codes.Align(strings.TrimSpace(fields[1])),
			Value:    value,
		})
		return true
	}); readErr != nil {
		return nil, errors.Trace(readErr)
	}
	if err != nil {
		return nil, err
	}
	return triples, nil
}

// LoadTriplesFromFile reads triples from a file.
func LoadTriplesFromFile(path, sep string, header bool) ([]Triple, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	return LoadTriples(file, sep, header)
}

// readLines parses fields of each line. Fields may be quoted.
func readLines(sc *bufio.Scanner, sep string, handler func(int, []string) bool) error {
	separator := []rune(sep)
	lineCount := 0               // line number of current position
	fields := make([]string, 0)  // fields for current line
	builder := strings.Builder{} // string builder for current field
	quoted := false              // whether current position in quote
	for sc.Scan() {
		line := []rune(sc.Text())
		if quoted {
			builder.WriteString("\r\n")
		}
		for i := 0; i < len(line); i++ {
			if !quoted && hasPrefix(line[i:], separator) {
				fields = append(fields, builder.String())
				builder.Reset()
				i += len(separator) - 1
			} else if line[i] == '"' {
				if quoted {
					if i+1 >= len(line) || line[i+1] != '"' {
						quoted = false
					} else {
						i++
						builder.WriteRune('"')
					}
				} else {
					quoted = true
				}
			} else {
				builder.WriteRune(line[i])
			}
		}
		if !quoted {
			fields = append(fields, builder.String())
			builder.Reset()
			// skip blank lines
			if len(fields) > 1 || strings.TrimSpace(fields[0]) != "" {
				if !handler(lineCount, fields) {
					return nil
				}
			}
			fields = []string{}
		}
		lineCount++
	}
	return sc.Err()
}

func hasPrefix(line, prefix []rune) bool {
	return len(line) >= len(prefix) && slices.Equal(line[:len(prefix)], prefix)
}
