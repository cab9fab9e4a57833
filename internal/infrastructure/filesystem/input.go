package filesystem

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
)

// ReadTextFile reads path as UTF-8 text.
func ReadTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", domainErrors.WithContext(
			domainErrors.Validation(fmt.Sprintf("cannot read input file %s", path), err),
			"path", path)
	}
	defer f.Close()

	text, err := ReadText(f)
	if err != nil {
		return "", domainErrors.WithContext(
			domainErrors.Validation(fmt.Sprintf("cannot read input file %s", path), err),
			"path", path)
	}
	return text, nil
}

// ReadText reads all of r as UTF-8 text.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", domainErrors.Validation("input is not valid UTF-8 text", nil)
	}
	return string(data), nil
}
