package mapper

import "sort"

func sortedLetters(alternatives map[string]string) []string {
	letters := make([]string, 0, len(alternatives))
	for l := range alternatives {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return letters
}
