package main

import (
	"testing"
)

const sampleHex = ":10010000214601360121470136007EFE09D2190140\n:00000001FF"

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		body        string
		wantJSON    bool
		wantErr     bool
		wantContain []string
	}{
		{
			name: "hex image",
			file: "fw.hex",
			body: sampleHex,
			wantContain: []string{
				"Data bytes: 16",
				"Blocks: 1",
				"Address range: 0x0000_0100 .. 0x0000_010F",
				"Start record: none",
			},
		},
		{
			name: "binary image",
			file: "fw.bin",
			body: "\x01\x02\x03\x04",
			wantContain: []string{
				"Data bytes: 4",
				"Address range: 0x0000_0000 .. 0x0000_0003",
			},
		},
		{
			name: "empty hex image",
			file: "fw.hex",
			body: ":00000001FF",
			wantContain: []string{
				"Data bytes: 0",
				"Address range: (no data)",
			},
		},
		{
			name:        "json output",
			file:        "fw.hex",
			body:        sampleHex,
			wantJSON:    true,
			wantContain: []string{"data_bytes", "0x0000_0100"},
		},
		{
			name:    "unknown extension",
			file:    "fw.elf",
			body:    "junk",
			wantErr: true,
		},
		{
			name:    "corrupt record",
			file:    "fw.hex",
			body:    ":00000001FE",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.wantJSON

			args := []string{writeFixture(t, tt.file, []byte(tt.body))}

			output, err := captureOutput(t, func() error {
				return runInfo(args)
			})

			if (err != nil) != tt.wantErr {
				t.Errorf("runInfo() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestInfoCommand_MissingFile(t *testing.T) {
	resetFlags()
	_, err := captureOutput(t, func() error {
		return runInfo([]string{"does-not-exist.hex"})
	})
	if err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestInfoCommand_Fixture(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		return runInfo([]string{"testdata/sample.hex"})
	})
	if err != nil {
		t.Fatalf("runInfo() error = %v", err)
	}

	assertContains(t, output, []string{
		"Data bytes: 7",
		"Blocks: 2",
		"Address range: 0x0000_0010 .. 0x0000_0103",
	})
}
