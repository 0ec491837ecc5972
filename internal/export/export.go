// Package export renders book records as downloadable files.
package export

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/snnyvrz/book-catalog/internal/model"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	FormatCSV = "csv"
	FormatXML = "xml"
)

// Formatter writes records with the requested fields, in request order.
type Formatter interface {
	Format() string
	ContentType() string
	Write(w io.Writer, fields []string, books []model.Book) error
}

// New resolves a formatter by name. Names are lowercase and matched exactly.
func New(format string) (Formatter, error) {
	switch format {
	case FormatCSV:
		return csvFormatter{}, nil
	case FormatXML:
		return xmlFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Filename is books-<YYYY-MM-DD>.<format> for the given day.
func Filename(f Formatter, now time.Time) string {
	return fmt.Sprintf("books-%s.%s", now.Format("2006-01-02"), f.Format())
}

func ContentDisposition(filename string) string {
	return "attachment; filename=" + filename
}

type csvFormatter struct{}

func (csvFormatter) Format() string      { return FormatCSV }
func (csvFormatter) ContentType() string { return "text/csv; charset=UTF-8" }

func (csvFormatter) Write(w io.Writer, fields []string, books []model.Book) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(fields); err != nil {
		return err
	}

	row := make([]string, len(fields))
	for _, b := range books {
		for i, f := range fields {
			row[i] = b.Field(f)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type xmlFormatter struct{}

func (xmlFormatter) Format() string      { return FormatXML }
func (xmlFormatter) ContentType() string { return "application/xml" }

func (xmlFormatter) Write(w io.Writer, fields []string, books []model.Book) error {
	if _, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n"); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)

	root := xml.StartElement{Name: xml.Name{Local: "books"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	for _, b := range books {
		book := xml.StartElement{Name: xml.Name{Local: "book"}}
		if err := enc.EncodeToken(book); err != nil {
			return err
		}
		for _, f := range fields {
			if err := enc.EncodeElement(b.Field(f), xml.StartElement{Name: xml.Name{Local: f}}); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(book.End()); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}
