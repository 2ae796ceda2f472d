package eagle

import (
	"bufio"
	"os"
	"strings"
)

// CheckHeader sniffs the first three lines of a file and reports whether it
// looks like an Eagle schematic, without parsing the whole document.
func CheckHeader(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines [3]string
	for i := 0; i < 3; i++ {
		if !scanner.Scan() {
			return false
		}
		lines[i] = scanner.Text()
	}

	return strings.HasPrefix(lines[0], "<?xml") &&
		strings.HasPrefix(lines[1], "<!DOCTYPE eagle SYSTEM") &&
		strings.HasPrefix(lines[2], "<eagle version")
}

// ParseFile reads and parses an Eagle schematic file.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}
