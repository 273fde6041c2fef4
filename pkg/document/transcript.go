package document

import (
	"fmt"
	"io"
	"os"

	"github.com/nodewee/scan-archiver/pkg/constants"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// MergeTranscripts concatenates the page transcripts, in order, into outputPath
func MergeTranscripts(paths []string, outputPath string) (err error) {
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.DefaultFilePermission)
	if err != nil {
		return utils.NewIOError("failed to create transcript", err).WithContext("path", outputPath)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = utils.NewIOError("failed to close transcript", cerr).WithContext("path", outputPath)
		}
	}()

	for i, p := range paths {
		if err := appendFile(out, p); err != nil {
			return utils.WrapError(err, utils.ErrorTypeIO, fmt.Sprintf("failed to merge transcript %d", i))
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(w, in)
	return err
}
