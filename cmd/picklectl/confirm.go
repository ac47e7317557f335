package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	listview "github.com/goliatone/go-listview/components/listview"
)

// promptConfirmer asks on out and reads a y/N answer from in. Anything but
// y or yes declines, including end of input.
func promptConfirmer(in io.Reader, out io.Writer) listview.Confirmer {
	reader := bufio.NewReader(in)
	return listview.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}
