package wasm

// Fetches a WASI build of sassc for TestSassc when GOSASS_SASSC_WASM_URL is set.
//go:generate go run ../../internal/tools/download -url-env GOSASS_SASSC_WASM_URL testdata/sassc.wasm
