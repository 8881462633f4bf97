package ptio

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestOpenIn(t *testing.T) {

	var (
		Cmd = &cobra.Command{
			Use:     "test",
			Short:   "test",
			Long:    `test`,
			Version: "1.0",
		}
	)

	var depthfile string
	Cmd.PersistentFlags().StringVarP(&depthfile, "depth", "d", "", "Depth file")
	Cmd.PersistentFlags().Set("depth", "not/a/file.whatever")

	_, err := OpenIn(*Cmd.Flag("depth"))
	if err == nil {
		t.Fatal("expected an error opening a non-existent file")
	}
	if err.Error() != "open -d / --depth not/a/file.whatever: no such file or directory" {
		t.Error(err)
	}
}
