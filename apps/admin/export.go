package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/adaptivin/adaptivin-admin/core/user"
	exportsvc "github.com/adaptivin/adaptivin-admin/services/export"
)

// export logs in as the given admin, fetches the requested list and writes it
// as an XLSX file. School admins get their own school's data, superadmins
// everything.
func (cli *commandLine) export(ctx context.Context, resource, outPath, email, password string) error {
	adm, token, err := cli.client.Login(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	cli.tokens.token = token

	scope := 0
	if !adm.IsSuperadmin() {
		scope = adm.SekolahID
	}

	var buf *bytes.Buffer
	switch resource {
	case "sekolah":
		schools, err := cli.client.Schools(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching schools")
		}
		buf, err = exportsvc.WriteSchools(schools)
		if err != nil {
			return err
		}
	case "kelas":
		classes, err := cli.client.Classes(ctx, scope)
		if err != nil {
			return errors.Wrap(err, "fetching classes")
		}
		buf, err = exportsvc.WriteClasses(classes)
		if err != nil {
			return err
		}
	case user.KindTeacher, user.KindStudent:
		users, err := cli.client.Users(ctx, resource, scope)
		if err != nil {
			return errors.Wrap(err, "fetching users")
		}
		buf, err = exportsvc.WriteUsers(resource, users)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown resource %q", resource)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outPath)
	}
	fmt.Printf("exported %s to %s\n", resource, outPath)
	return nil
}
