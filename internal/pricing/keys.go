package pricing

import (
	"sort"
	"strconv"
	"strings"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FirstKey is the template group; it always exists.
const FirstKey = "A"

// nextKey returns the first unused letter, or "G<count+1>" once all letters are taken.
func nextKey(used []string) string {
	taken := make(map[string]bool, len(used))
	for _, k := range used {
		taken[k] = true
	}
	for _, r := range letters {
		if !taken[string(r)] {
			return string(r)
		}
	}
	return "G" + strconv.Itoa(len(used)+1)
}

// keyForIndex is the contiguous key of the i-th group.
func keyForIndex(i int) string {
	if i < len(letters) {
		return string(letters[i])
	}
	return "G" + strconv.Itoa(i+1)
}

// keyRank orders keys A..Z, then G27, G28, ..., then anything else.
func keyRank(key string) int {
	if len(key) == 1 {
		if i := strings.IndexByte(letters, key[0]); i >= 0 {
			return i
		}
	}
	if strings.HasPrefix(key, "G") {
		if n, err := strconv.Atoi(key[1:]); err == nil && n > 0 {
			return len(letters) + n
		}
	}
	return int(^uint(0) >> 1)
}

func sortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := keyRank(keys[i]), keyRank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}
