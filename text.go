package ps

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	encbe  = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	encle  = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	latin1 = charmap.ISO8859_1.NewDecoder()
)

// convertString turns the text of a DSC comment into UTF-8. DSC does not
// say anything about encodings: UTF-16 is recognized by its byte order
// mark, anything that is not valid UTF-8 is taken as Latin-1.
func convertString(str string) string {
	var err error
	switch {
	case strings.HasPrefix(str, "\xfe\xff"):
		str, err = encbe.String(str)
	case strings.HasPrefix(str, "\xff\xfe"):
		str, err = encle.String(str)
	case !utf8.ValidString(str):
		str, err = latin1.String(str)
	}
	if err != nil {
		return ""
	}
	return str
}

// textValue returns the value of a DSC comment as text: a PostScript
// string literal is unescaped, anything else is returned as is.
func textValue(str string) string {
	str = strings.TrimSpace(str)
	if len(str) >= 2 && str[0] == '(' && str[len(str)-1] == ')' {
		str = unescape(str[1 : len(str)-1])
	}
	return convertString(str)
}

func unescape(str string) string {
	if strings.IndexByte(str, '\\') < 0 {
		return str
	}
	var b strings.Builder
	for i := 0; i < len(str); i++ {
		if str[i] != '\\' || i == len(str)-1 {
			b.WriteByte(str[i])
			continue
		}
		i++
		switch c := str[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(str) && j < i+3 && str[j] >= '0' && str[j] <= '7' {
				j++
			}
			n, _ := strconv.ParseUint(str[i:j], 8, 8)
			b.WriteByte(byte(n))
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
