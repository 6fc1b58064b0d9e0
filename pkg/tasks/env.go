package tasks

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/olimci/cordova-dev/pkg/config"
	"github.com/olimci/cordova-dev/pkg/utils/fileutils"
	"github.com/olimci/cordova-dev/pkg/utils/lazy"
)

//go:embed templates/*.tmpl
var templates embed.FS

var localProperties = lazy.New(func() (*template.Template, error) {
	return template.ParseFS(templates, "templates/local.properties.tmpl")
})

// androidEnv checks that the Android and cordova-js checkouts are present and
// that the framework has a local.properties, prompting for the SDK location
// to write one when it does not. It returns the two repository directories.
func (s *Session) androidEnv(ctx context.Context) (androidDir, jsDir string, err error) {
	androidDir, androidErr := s.repoDir(config.RepoAndroid)
	jsDir, jsErr := s.repoDir(config.RepoCordovaJS)
	if err := errors.Join(androidErr, jsErr); err != nil {
		return "", "", err
	}

	props := filepath.Join(androidDir, "framework", "local.properties")
	if fileutils.Exists(props) {
		return androidDir, jsDir, nil
	}

	s.reporter("android").Warnf("File local.properties does not exist.")
	sdk, err := s.Prompt.Input(ctx, "Enter location of Android sdk (ie android-sdk-mac_86)", "")
	if err != nil {
		return "", "", err
	}
	sdk = strings.TrimSpace(sdk)
	if sdk == "" {
		return "", "", ErrAborted
	}

	tmpl, err := localProperties.Get()
	if err != nil {
		return "", "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ SDKDir string }{sdk}); err != nil {
		return "", "", fmt.Errorf("rendering local.properties: %w", err)
	}
	if err := fileutils.AtomicWriteFile(props, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("writing local.properties: %w", err)
	}

	return androidDir, jsDir, nil
}
