/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package oplog

import (
	"bufio"
	"encoding/json"
	"os"
	"strconv"

	"replifo/internal/apperrors"
	"replifo/internal/logging"
)

var sinkLog = logging.NewLogger("oplog.sink")

// WriteJSONL appends entries to path as JSON Lines: one compact object
// per line, no enclosing array. The file is created if it does not
// exist; existing lines are kept, so writing the same entries twice
// leaves each of them in the file twice.
func WriteJSONL[T any](path string, entries []LogEntry[T]) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.NewIOError(apperrors.CodeSinkOpenFailed, "failed to open sink file").WithCause(err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return apperrors.NewIOError(apperrors.CodeSinkMarshalFailed, "failed to marshal log entry").WithCause(err)
		}
		if _, err := w.Write(data); err != nil {
			return apperrors.NewIOError(apperrors.CodeSinkWriteFailed, "failed to write sink line").WithCause(err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return apperrors.NewIOError(apperrors.CodeSinkWriteFailed, "failed to write sink line").WithCause(err)
		}
	}
	if err := w.Flush(); err != nil {
		return apperrors.NewIOError(apperrors.CodeSinkWriteFailed, "failed to flush sink file").WithCause(err)
	}

	sinkLog.Info("wrote log sink", "path", path, "entries", strconv.Itoa(len(entries)))
	return nil
}
