// Package wasmtest assembles tiny wasm binaries for tests.
package wasmtest

// Value types as encoded in the binary format.
const (
	I32 byte = 0x7f
	I64 byte = 0x7e
)

// MemoryWASM is a minimal module with 1 page of memory exported as "memory".
var MemoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

// Forwarder assembles a module that imports module.name with the given
// params and results, exports one page of memory as "memory", and exports
// "run" with the same signature, forwarding its arguments to the import.
// All sections must stay under 128 bytes.
func Forwarder(module, name string, params, results []byte) []byte {
	functype := []byte{0x60, byte(len(params))}
	functype = append(functype, params...)
	functype = append(functype, byte(len(results)))
	functype = append(functype, results...)

	body := []byte{0x00} // no locals
	for i := range params {
		body = append(body, 0x20, byte(i)) // local.get i
	}
	body = append(body, 0x10, 0x00, 0x0b) // call 0, end

	imports := []byte{0x01}
	imports = append(imports, str(module)...)
	imports = append(imports, str(name)...)
	imports = append(imports, 0x00, 0x00) // func, type 0

	exports := []byte{0x02}
	exports = append(exports, str("memory")...)
	exports = append(exports, 0x02, 0x00) // memory 0
	exports = append(exports, str("run")...)
	exports = append(exports, 0x00, 0x01) // func 1

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, section(0x01, append([]byte{0x01}, functype...))...)
	out = append(out, section(0x02, imports)...)
	out = append(out, section(0x03, []byte{0x01, 0x00})...)
	out = append(out, section(0x05, []byte{0x01, 0x00, 0x01})...)
	out = append(out, section(0x07, exports)...)
	out = append(out, section(0x0a, append([]byte{0x01, byte(len(body))}, body...))...)
	return out
}

func section(id byte, content []byte) []byte {
	return append([]byte{id, byte(len(content))}, content...)
}

func str(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}
