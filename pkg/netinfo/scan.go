/*
 * Copyright 2025 Carver Automation Corporation.
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

package netinfo

import (
	"strconv"
	"strings"
)

const scanSeparator = " | "

// SummarizeScan renders visible scan records as
// "SSID: -50dB | Other (AA:BB:CC:DD:EE:FF): -60dB | ...".
// An SSID seen more than once among visible records carries its BSSID.
// The result is cut to MaxStateLength bytes.
func SummarizeScan(records []ScanRecord) string {
	counts := make(map[string]int, len(records))

	for i := range records {
		if records[i].Hidden {
			continue
		}

		counts[records[i].SSID]++
	}

	var b strings.Builder

	for i := range records {
		rec := &records[i]
		if rec.Hidden {
			continue
		}

		b.WriteString(rec.SSID)

		if counts[rec.SSID] > 1 {
			b.WriteString(" (")
			b.WriteString(rec.BSSID.String())
			b.WriteString(")")
		}

		b.WriteString(": ")
		b.WriteString(strconv.Itoa(rec.RSSI))
		b.WriteString("dB")
		b.WriteString(scanSeparator)
	}

	summary := strings.TrimSuffix(b.String(), scanSeparator)

	return TruncateState(summary)
}

// TruncateState cuts s to MaxStateLength bytes. A multi-byte character at
// the boundary may be split.
func TruncateState(s string) string {
	if len(s) <= MaxStateLength {
		return s
	}

	return s[:MaxStateLength]
}
