// Package report renders attendance and grade sheets as CSV or XLSX downloads.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

// Formats and their content types.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Filename prefixes per report kind.
const (
	PrefixAttendance = "Laporan_Absensi"
	PrefixKnowledge  = "Laporan_Nilai_Pengetahuan"
	PrefixPractice   = "Laporan_Nilai_Praktek"
)

var (
	attendanceHeaders = []string{"Tanggal", "NIS", "Nama Siswa", "Mata Pelajaran", "Kelas", "Status", "Keterangan"}
	gradeHeaders      = []string{"NIS", "Nama Siswa", "Mata Pelajaran", "Kelas", "Semester", "Tahun Ajaran"}
	knowledgeHeaders  = append(append([]string{}, gradeHeaders...), "UH1", "UH2", "UH3", "UTS", "UAS", "Rata-rata", "Predikat")
	practiceHeaders   = append(append([]string{}, gradeHeaders...), "Praktek 1", "Praktek 2", "Rata-rata", "Predikat")
)

// Zero-based column positions of the numeric cells in each grade table.
var (
	knowledgeNumeric = []int{4, 6, 7, 8, 9, 10, 11}
	practiceNumeric  = []int{4, 6, 7, 8}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row plus data rows, every cell already formatted.
// NumericColumns lists zero-based columns that XLSX output stores as numbers.
type Table struct {
	Sheet          string
	Headers        []string
	Rows           [][]string
	NumericColumns []int
}

// Names resolves the subject and class labels printed in every row.
type Names struct {
	Subject string
	Class   string
}

// Attendance builds the attendance table. Rows are printed in the given order.
func Attendance(records []models.Attendance, names Names) Table {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			FormatDate(record.Date),
			record.Student.StudentNumber,
			record.Student.Name,
			names.Subject,
			names.Class,
			record.Status,
			record.Notes,
		})
	}
	return Table{Sheet: "Absensi", Headers: attendanceHeaders, Rows: rows}
}

// Knowledge builds the knowledge grade table.
func Knowledge(grades []models.KnowledgeGrade, names Names) Table {
	rows := make([][]string, 0, len(grades))
	for _, grade := range grades {
		row := gradePrefix(grade.Student, names, grade.Semester, grade.AcademicYear)
		row = append(row,
			FormatScore(grade.UH1),
			FormatScore(grade.UH2),
			FormatScore(grade.UH3),
			FormatScore(grade.UTS),
			FormatScore(grade.UAS),
			FormatAverage(grade.Average),
			deref(grade.Predicate),
		)
		rows = append(rows, row)
	}
	return Table{Sheet: "Nilai Pengetahuan", Headers: knowledgeHeaders, Rows: rows, NumericColumns: knowledgeNumeric}
}

// Practice builds the practice grade table.
func Practice(grades []models.PracticeGrade, names Names) Table {
	rows := make([][]string, 0, len(grades))
	for _, grade := range grades {
		row := gradePrefix(grade.Student, names, grade.Semester, grade.AcademicYear)
		row = append(row,
			FormatScore(grade.Practice1),
			FormatScore(grade.Practice2),
			FormatAverage(grade.Average),
			deref(grade.Predicate),
		)
		rows = append(rows, row)
	}
	return Table{Sheet: "Nilai Praktek", Headers: practiceHeaders, Rows: rows, NumericColumns: practiceNumeric}
}

func gradePrefix(student models.Student, names Names, semester int, academicYear string) []string {
	return []string{
		student.StudentNumber,
		student.Name,
		names.Subject,
		names.Class,
		strconv.Itoa(semester),
		academicYear,
	}
}

// WriteCSV writes the table with every cell quoted, prefixed by a UTF-8 BOM for spreadsheet apps.
func WriteCSV(w io.Writer, table Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	if err := writeCSVLine(w, table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writeCSVLine(w, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVLine(w io.Writer, cells []string) error {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	return err
}

// WriteXLSX writes the table as a single-sheet workbook.
func WriteXLSX(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := table.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	if err := writeXLSXRow(f, sheet, 1, table.Headers, nil); err != nil {
		return err
	}
	numeric := make(map[int]bool, len(table.NumericColumns))
	for _, col := range table.NumericColumns {
		numeric[col] = true
	}
	for i, row := range table.Rows {
		if err := writeXLSXRow(f, sheet, i+2, row, numeric); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeXLSXRow(f *excelize.File, sheet string, row int, cells []string, numeric map[int]bool) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if numeric[col] {
			if value == "" {
				continue
			}
			if number, err := strconv.ParseFloat(value, 64); err == nil {
				if err := f.SetCellFloat(sheet, cell, number, -1, 64); err != nil {
					return fmt.Errorf("write cell %s: %w", cell, err)
				}
				continue
			}
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	return nil
}

// Write renders the table in the requested format and returns its content type.
func Write(w io.Writer, format string, table Table) (string, error) {
	switch format {
	case FormatXLSX:
		return ContentTypeXLSX, WriteXLSX(w, table)
	case FormatCSV, "":
		return ContentTypeCSV, WriteCSV(w, table)
	default:
		return "", fmt.Errorf("unsupported report format %q", format)
	}
}

// Filename returns "<prefix>_YYYY-MM-DD.<format>".
func Filename(prefix string, now time.Time, format string) string {
	if format == "" {
		format = FormatCSV
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("2006-01-02"), format)
}

// FormatDate turns a stored YYYY-MM-DD date into D/M/YYYY. Unparseable input is returned unchanged.
func FormatDate(date string) string {
	parsed, err := time.Parse(models.AttendanceDateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d/%d", parsed.Day(), int(parsed.Month()), parsed.Year())
}

// FormatScore prints a subscore as entered, or an empty cell when absent.
func FormatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

// FormatAverage prints the average with two decimals, or an empty cell when absent.
func FormatAverage(average *float64) string {
	if average == nil {
		return ""
	}
	return strconv.FormatFloat(*average, 'f', 2, 64)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
