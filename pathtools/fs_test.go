// Copyright 2018 Google Inc. All rights reserved.
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

package pathtools

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFsExistsDistinguishesFilesAndDirs(t *testing.T) {
	fs := MockFs(map[string][]byte{
		"a/b/C.java": nil,
	})

	exists, isDir, err := fs.Exists("a/b/C.java")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.False(t, isDir)

	exists, isDir, err = fs.Exists("a/b")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, isDir)

	exists, _, err = fs.Exists("a/b/Missing.java")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMockFsIsDir(t *testing.T) {
	fs := MockFs(map[string][]byte{"a/b/C.java": nil})

	isDir, err := fs.IsDir("a/b")
	require.NoError(t, err)
	assert.True(t, isDir)

	isDir, err = fs.IsDir("a/b/C.java")
	require.NoError(t, err)
	assert.False(t, isDir)
}

func TestMockFsOpenMissingReturnsNotExist(t *testing.T) {
	fs := MockFs(nil)
	_, err := fs.Open("missing")
	assert.True(t, os.IsNotExist(err))
}

func TestMockFsLstatUnimplemented(t *testing.T) {
	fs := MockFs(nil)
	_, err := fs.Lstat("anything")
	assert.Error(t, err)
}

func TestMockFsListDirsRecursive(t *testing.T) {
	fs := MockFs(map[string][]byte{
		"a/b/C.java": nil,
		"a/d/E.java": nil,
	})

	dirs, err := fs.ListDirsRecursive("a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "a/b", "a/d"}, dirs)
}

func TestOsFsExistsOnRealFile(t *testing.T) {
	dir := t.TempDir()
	f := dir + "/x.java"
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	exists, isDir, err := OsFs.Exists(f)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.False(t, isDir)

	exists, isDir, err = OsFs.Exists(dir)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, isDir)

	exists, _, err = OsFs.Exists(dir + "/missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
