package document

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DocNoDateLayout formato de fecha dentro del número de documento.
const DocNoDateLayout = "20060102"

var docNoPattern = regexp.MustCompile(`^([A-Z]+)-(\d{8})-(\d{4,})$`)

// FormatDocNo arma {PREFIJO}-{YYYYMMDD}-{seq:04}.
func FormatDocNo(t DocType, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", t.Prefix(), day.Format(DocNoDateLayout), seq)
}

// DocNoPrefix prefijo común de todos los números de un tipo en un día (incluye el guion final).
func DocNoPrefix(t DocType, day time.Time) string {
	return t.Prefix() + "-" + day.Format(DocNoDateLayout) + "-"
}

// ParseDocNo descompone un número de documento. Falla si no respeta el formato.
func ParseDocNo(docNo string) (DocType, time.Time, int, error) {
	m := docNoPattern.FindStringSubmatch(docNo)
	if m == nil {
		return "", time.Time{}, 0, fmt.Errorf("número de documento con formato inválido: %q", docNo)
	}
	t, err := ParseDocType(m[1])
	if err != nil {
		return "", time.Time{}, 0, err
	}
	day, err := time.Parse(DocNoDateLayout, m[2])
	if err != nil {
		return "", time.Time{}, 0, fmt.Errorf("fecha inválida en %q: %w", docNo, err)
	}
	seq, err := strconv.Atoi(m[3])
	if err != nil || seq < 1 {
		return "", time.Time{}, 0, fmt.Errorf("secuencia inválida en %q", docNo)
	}
	return t, day, seq, nil
}
