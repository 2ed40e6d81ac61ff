// Package exportsvc renders management lists as XLSX workbooks for the
// download buttons and the ops CLI.
package exportsvc

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/school"
	"github.com/adaptivin/adaptivin-admin/core/user"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteSchools renders the school list.
func WriteSchools(schools []school.School) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(schools))
	for _, sch := range schools {
		rows = append(rows, []interface{}{sch.ID, sch.Name, sch.Address})
	}
	return write("Sekolah", []string{"ID", "Nama", "Alamat"}, rows)
}

// WriteClasses renders the class list.
func WriteClasses(classes []class.Class) (*bytes.Buffer, error) {
	rows := make([][]interface{}, 0, len(classes))
	for _, cls := range classes {
		rows = append(rows, []interface{}{
			cls.ID, cls.Name, cls.Level, cls.Rombel, cls.Subject, cls.AcademicYear, cls.StudentCount,
		})
	}
	return write("Kelas", []string{"ID", "Nama", "Tingkat", "Rombel", "Mapel", "Tahun Ajaran", "Jumlah Siswa"}, rows)
}

// WriteUsers renders a teacher or student list. The identifier column is
// labeled by kind (NIP for teachers, NISN for students).
func WriteUsers(kind string, users []user.User) (*bytes.Buffer, error) {
	idColumn := "NIP"
	sheet := "Guru"
	if kind == user.KindStudent {
		idColumn = "NISN"
		sheet = "Siswa"
	}

	rows := make([][]interface{}, 0, len(users))
	for _, usr := range users {
		rows = append(rows, []interface{}{
			usr.ID, usr.Name, usr.Identifier, usr.BirthDate, usr.Gender, usr.Address,
		})
	}
	return write(sheet, []string{"ID", "Nama", idColumn, "Tanggal Lahir", "Jenis Kelamin", "Alamat"}, rows)
}

func write(sheet string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}
	if err := setRow(f, sheet, 1, headersToCells(headers)); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, val := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		if err = f.SetCellValue(sheet, cell, val); err != nil {
			return errors.Wrapf(err, "setting %s", cell)
		}
	}
	return nil
}

func headersToCells(headers []string) []interface{} {
	cells := make([]interface{}, 0, len(headers))
	for _, h := range headers {
		cells = append(cells, h)
	}
	return cells
}

// Filename builds a safe download name like "kelola-kelas.xlsx".
func Filename(base string) string {
	base = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(base), " ", "-"))
	return base + ".xlsx"
}
