package chunker

import "strings"

// Split cuts text into chunks of at most maxChunkSize runes, with the given
// rune overlap between consecutive chunks. Cuts prefer a sentence boundary
// in the back half of the window so chunks stay semantically whole; when no
// boundary exists there, the window is cut at full size.
func Split(text string, maxChunkSize, overlap int) []string {
	if maxChunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 2
	}

	runes := []rune(text)
	totalLen := len(runes)
	if totalLen == 0 {
		return nil
	}
	if totalLen <= maxChunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < totalLen {
		end := start + maxChunkSize
		if end >= totalLen {
			end = totalLen
		} else {
			// Scan backwards for a sentence end, but never cut before the
			// middle of the window: tiny chunks fragment retrieval.
			for cut := end - 1; cut > start+maxChunkSize/2; cut-- {
				if sentenceEnd(runes[cut]) {
					end = cut + 1
					break
				}
			}
		}

		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		if end == totalLen {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1 // forward progress whatever the overlap
		}
		start = next
	}

	return chunks
}

func sentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '\n':
		return true
	}
	return false
}
