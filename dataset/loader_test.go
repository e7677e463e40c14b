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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestLoadTriples(t *testing.T) {
	text := "user,item,rating,timestamp\n" +
		"1,10,4.5,881250949\n" +
		"\n" +
		"\"2,a\",20,3\n" +
		" 3 , 30 , 1 \n"
	triples, err := LoadTriples(strings.NewReader(text), ",", true)
	assert.NoError(t, err)
	assert.Equal(t, []Triple{
		{UserCode: "1", ItemCode: "10", Value: 4.5},
		{UserCode: "2,a", ItemCode: "20", Value: 3},
		{UserCode: "3", ItemCode: "30", Value: 1},
	}, triples)
}

func TestLoadTriplesTab(t *testing.T) {
	triples, err := LoadTriples(strings.NewReader("1\t2\t3\n4\t5\t6\n"), "\t", false)
	assert.NoError(t, err)
	assert.Len(t, triples, 2)
	assert.Equal(t, Triple{UserCode: "4", ItemCode: "5", Value: 6}, triples[1])
}

func TestLoadTriplesMultiCharSeparator(t *testing.T) {
	text := "1::1193::5::978300760\n1::661::3::978302109\n2::1193::4::978298413\n"
	triples, err := LoadTriples(strings.NewReader(text), "::", false)
	assert.NoError(t, err)
	assert.Equal(t, []Triple{
		{UserCode: "1", ItemCode: "1193", Value: 5},
		{UserCode: "1", ItemCode: "661", Value: 3},
		{UserCode: "2", ItemCode: "1193", Value: 4},
	}, triples)
	// a single colon is part of the field
	triples, err = LoadTriples(strings.NewReader("a:b::c::1\n"), "::", false)
	assert.NoError(t, err)
	assert.Equal(t, []Triple{{UserCode: "a:b", ItemCode: "c", Value: 1}}, triples)
	_, err = LoadTriples(strings.NewReader("1,2,3\n"), "", false)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestLoadTriplesSharedCodes(t *testing.T) {
	triples, err := LoadTriples(strings.NewReader("u1,i1,5\nu1,i2,3\nu2,i1,4\n"), ",", false)
	assert.NoError(t, err)
	assert.Len(t, triples, 3)
	assert.Same(t, unsafe.StringData(triples[0].UserCode), unsafe.StringData(triples[1].UserCode))
	assert.Same(t, unsafe.StringData(triples[0].ItemCode), unsafe.StringData(triples[2].ItemCode))
}

func TestLoadTriplesInvalid(t *testing.T) {
	_, err := LoadTriples(strings.NewReader("1,2,3\n1,2\n"), ",", false)
	assert.True(t, errors.Is(err, errors.NotValid))
	_, err = LoadTriples(strings.NewReader("1,2,x\n"), ",", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestLoadTriplesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	assert.NoError(t, os.WriteFile(path, []byte("u1,i1,5\nu2,i1,2\n"), 0o644))
	triples, err := LoadTriplesFromFile(path, ",", false)
	assert.NoError(t, err)
	assert.Len(t, triples, 2)
	_, err = LoadTriplesFromFile(filepath.Join(t.TempDir(), "missing.csv"), ",", false)
	assert.Error(t, err)
}
