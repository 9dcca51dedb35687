package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/guestmem/borrow"
	"github.com/wippyai/guestmem/errors"
)

type probeOptions struct {
	offset int32
	count  int32
	typ    string
	all    bool
}

// probeTypes lists the accepted --type values in help order.
var probeTypes = []string{"u8", "i8", "u16", "i16", "u32", "i32", "u64", "i64", "f32", "f64", "string", "hex"}

func newProbeCmd(a *app) *cobra.Command {
	var o probeOptions

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Read a typed range of a byte image through the memory checker",
		Long: `Treats the file as guest linear memory and reads count elements of the
given type at offset, exactly as a host function would. Out of range or
invalid requests fail with the same structured error a guest call would trap
with.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Load("read "+args[0], err)
			}

			c := borrow.New(data)
			out := cmd.OutOrStdout()
			if o.all {
				fmt.Fprint(out, hex.Dump(c.Raw()))
				return nil
			}

			s, err := probe(c, o.typ, o.offset, o.count)
			if err != nil {
				a.logger.Debug("probe failed",
					zap.String("type", o.typ),
					zap.Int32("offset", o.offset),
					zap.Int32("count", o.count),
					zap.Error(err),
				)
				return borrow.ToTrap(err)
			}
			fmt.Fprintln(out, s)
			return nil
		},
	}

	cmd.Flags().Int32VarP(&o.offset, "offset", "o", 0, "byte offset into the file")
	cmd.Flags().Int32VarP(&o.count, "count", "n", 1, "element count (bytes for string and hex)")
	cmd.Flags().StringVarP(&o.typ, "type", "t", "u8", "element type: "+strings.Join(probeTypes, ", "))
	cmd.Flags().BoolVar(&o.all, "all", false, "hex dump the whole file without any checks")
	return cmd
}

func probe(c *borrow.Checker, typ string, offset, count int32) (string, error) {
	switch typ {
	case "u8":
		return formatElems[borrow.Uint8, uint8](c, offset, count)
	case "i8":
		return formatElems[borrow.Int8, int8](c, offset, count)
	case "u16":
		return formatElems[borrow.Uint16LE, uint16](c, offset, count)
	case "i16":
		return formatElems[borrow.Int16LE, int16](c, offset, count)
	case "u32":
		return formatElems[borrow.Uint32LE, uint32](c, offset, count)
	case "i32":
		return formatElems[borrow.Int32LE, int32](c, offset, count)
	case "u64":
		return formatElems[borrow.Uint64LE, uint64](c, offset, count)
	case "i64":
		return formatElems[borrow.Int64LE, int64](c, offset, count)
	case "f32":
		return formatElems[borrow.Float32LE, float32](c, offset, count)
	case "f64":
		return formatElems[borrow.Float64LE, float64](c, offset, count)
	case "string":
		s, err := c.String(offset, count)
		if err != nil {
			return "", err
		}
		return strconv.Quote(s), nil
	case "hex":
		b, err := c.Bytes(offset, count)
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(hex.Dump(b), "\n"), nil
	default:
		return "", errors.InvalidData(errors.PhaseConfig,
			fmt.Sprintf("unknown type %q, want one of %s", typ, strings.Join(probeTypes, ", ")))
	}
}

type element[T any] interface {
	borrow.Bytewise
	Get() T
}

func formatElems[E element[T], T any](c *borrow.Checker, offset, count int32) (string, error) {
	elems, err := borrow.Slice[E](c, offset, count)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = fmt.Sprint(e.Get())
	}
	return strings.Join(parts, " "), nil
}
