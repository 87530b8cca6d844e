package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/siakad-go-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func TestWriteCSVQuotesEveryCell(t *testing.T) {
	records := []models.Attendance{
		{Date: "2024-08-01", Status: models.AttendanceExcused, Notes: `acara "keluarga"`, Student: models.Student{Name: "Andi Saputra", StudentNumber: "1001"}},
	}
	table := Attendance(records, Names{Subject: "Matematika", Class: "X IPA 1"})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	body := strings.TrimPrefix(buf.String(), string(utf8BOM))
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, `"Tanggal","NIS","Nama Siswa","Mata Pelajaran","Kelas","Status","Keterangan"`, lines[0])
	require.Equal(t, `"1/8/2024","1001","Andi Saputra","Matematika","X IPA 1","izin","acara ""keluarga"""`, lines[1])
}

func TestKnowledgeTableFormatsScores(t *testing.T) {
	grades := []models.KnowledgeGrade{
		{
			Semester:     1,
			AcademicYear: "2024/2025",
			UH1:          floatPtr(90),
			UH2:          floatPtr(80.5),
			Average:      floatPtr(85.25),
			Predicate:    strPtr("A"),
			Student:      models.Student{Name: "Budi Santoso", StudentNumber: "1002"},
		},
	}
	table := Knowledge(grades, Names{Subject: "Matematika", Class: "X IPA 1"})

	require.Equal(t, []string{"NIS", "Nama Siswa", "Mata Pelajaran", "Kelas", "Semester", "Tahun Ajaran", "UH1", "UH2", "UH3", "UTS", "UAS", "Rata-rata", "Predikat"}, table.Headers)
	require.Equal(t, []string{"1002", "Budi Santoso", "Matematika", "X IPA 1", "1", "2024/2025", "90", "80.5", "", "", "", "85.25", "A"}, table.Rows[0])
}

func TestPracticeTableHeaders(t *testing.T) {
	grades := []models.PracticeGrade{
		{Semester: 2, AcademicYear: "2024/2025", Practice1: floatPtr(60), Practice2: floatPtr(70), Average: floatPtr(65), Predicate: strPtr("C")},
	}
	table := Practice(grades, Names{Subject: "Biologi", Class: "XI IPS 2"})

	require.Equal(t, "Praktek 1", table.Headers[6])
	require.Equal(t, "Praktek 2", table.Headers[7])
	require.Equal(t, []string{"60", "70", "65.00", "C"}, table.Rows[0][6:])
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	table := Table{Sheet: "Absensi", Headers: []string{"NIS", "Nama Siswa"}, Rows: [][]string{{"1001", "Andi Saputra"}}}

	var buf bytes.Buffer
	contentType, err := Write(&buf, FormatXLSX, table)
	require.NoError(t, err)
	require.Equal(t, ContentTypeXLSX, contentType)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Absensi")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"NIS", "Nama Siswa"}, {"1001", "Andi Saputra"}}, rows)
	require.Equal(t, []string{"Absensi"}, f.GetSheetList())
}

func TestWriteXLSXStoresScoresAsNumbers(t *testing.T) {
	grades := []models.KnowledgeGrade{
		{
			Semester:     1,
			AcademicYear: "2024/2025",
			UH1:          floatPtr(90),
			UH2:          floatPtr(80.5),
			Average:      floatPtr(85.25),
			Predicate:    strPtr("A"),
			Student:      models.Student{Name: "Budi Santoso", StudentNumber: "01002"},
		},
	}
	table := Knowledge(grades, Names{Subject: "Matematika", Class: "X IPA 1"})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	const sheet = "Nilai Pengetahuan"
	for _, cell := range []string{"E2", "G2", "H2", "L2"} {
		cellType, err := f.GetCellType(sheet, cell)
		require.NoError(t, err)
		require.NotEqual(t, excelize.CellTypeSharedString, cellType, "cell %s", cell)
		require.NotEqual(t, excelize.CellTypeInlineString, cellType, "cell %s", cell)
	}

	value, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	require.Equal(t, "80.5", value)

	empty, err := f.GetCellValue(sheet, "I2")
	require.NoError(t, err)
	require.Empty(t, empty)

	for _, cell := range []string{"A2", "M2"} {
		cellType, err := f.GetCellType(sheet, cell)
		require.NoError(t, err)
		require.Equal(t, excelize.CellTypeSharedString, cellType, "cell %s", cell)
	}
	nis, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "01002", nis)
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	_, err := Write(&bytes.Buffer{}, "pdf", Table{})
	require.Error(t, err)
}

func TestFilenameAndFormatting(t *testing.T) {
	now := time.Date(2024, 8, 17, 9, 0, 0, 0, time.UTC)
	require.Equal(t, "Laporan_Absensi_2024-08-17.csv", Filename(PrefixAttendance, now, ""))
	require.Equal(t, "Laporan_Nilai_Praktek_2024-08-17.xlsx", Filename(PrefixPractice, now, FormatXLSX))

	require.Equal(t, "17/8/2024", FormatDate("2024-08-17"))
	require.Equal(t, "not-a-date", FormatDate("not-a-date"))
	require.Equal(t, "", FormatScore(nil))
	require.Equal(t, "", FormatAverage(nil))
	require.Equal(t, "77.67", FormatAverage(floatPtr(233.0/3)))
}
