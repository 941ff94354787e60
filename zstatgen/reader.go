package zstatgen

import (
	"bufio"
	"context"
	"io"
	"strconv"

	"github.com/torlangballe/zstats/zerrors"
)

// ReadValues calls got with each whitespace-separated number in r, returning how many were read.
// A token that isn't a number stops reading with a ContextError telling where it was.
func ReadValues(ctx context.Context, r io.Reader, source string, got func(v float64)) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var n int
	for scanner.Scan() {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		token := scanner.Text()
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			kv := map[string]any{"source": source, "token": n + 1, "text": token}
			return n, zerrors.MakeContextError(kv, "bad value", err)
		}
		got(v)
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, zerrors.MakeContextError(map[string]any{"source": source}, "read", err)
	}
	return n, nil
}
