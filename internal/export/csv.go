// Пакет export — выгрузка отфильтрованного списка в CSV.
//
// Формат: каждое значение в двойных кавычках (кавычки внутри удваиваются),
// значения через запятую, строки через \n, первая строка — заголовки.
package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ContentType — MIME-тип выгрузки.
const ContentType = "text/csv; charset=utf-8"

// Column — колонка выгрузки: заголовок и значение ячейки.
type Column[T any] struct {
	Title string
	Value func(T) string
}

// Write записывает заголовок и строки rows в w.
func Write[T any](w io.Writer, cols []Column[T], rows []T) error {
	bw := bufio.NewWriter(w)

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	writeLine(bw, titles)

	cells := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			cells[i] = c.Value(row)
		}
		bw.WriteByte('\n')
		writeLine(bw, cells)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("запись CSV: %w", err)
	}
	return nil
}

// Render возвращает CSV целиком.
func Render[T any](cols []Column[T], rows []T) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, cols, rows)
	return buf.Bytes()
}

// Filename — имя файла выгрузки {domain}-{YYYY-MM-DD}.csv.
func Filename(domain string, at time.Time) string {
	return fmt.Sprintf("%s-%s.csv", domain, at.UTC().Format("2006-01-02"))
}

// ContentDisposition — значение заголовка для скачивания файла.
func ContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

// Amount переводит сумму в пайсах в рупии с двумя знаками.
func Amount(paise int64) string {
	return strconv.FormatFloat(float64(paise)/100, 'f', 2, 64)
}

// Timestamp форматирует метку времени (пусто для нулевого времени).
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeLine(w *bufio.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		w.WriteByte('"')
	}
}
