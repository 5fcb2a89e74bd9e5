package basmvm

import (
	"bytes"
	"testing"
)

func TestLoadRejectsParseErrors(t *testing.T) {
	_, err := Load("mov $\n")
	if err == nil {
		t.Fatal("expected Load to reject a source with parse diagnostics")
	}
}

func TestLoadRejectsReparseErrors(t *testing.T) {
	_, err := Load("frobnicate rax\n")
	if err == nil {
		t.Fatal("expected Load to reject an unknown mnemonic")
	}
}

func TestMachineRunWriteAndExit(t *testing.T) {
	src := "section data\n" +
		"message str \"Hi\", 10\n" +
		"global _start\n" +
		"_start:\n" +
		"    mov rax, 1\n" +
		"    mov rdi, 1\n" +
		"    mov rsi, message\n" +
		"    mov rdx, 3\n" +
		"    syscall\n" +
		"    mov rax, 60\n" +
		"    mov rdi, 7\n" +
		"    syscall\n"

	m, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	var out bytes.Buffer
	code, err := m.Run(&out)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	if got := out.String(); got != "Hi\n" {
		t.Errorf("stdout = %q, want %q", got, "Hi\n")
	}
}

func TestMachineRunArithmetic(t *testing.T) {
	src := "mov rax, 5\nadd rax, 10\nsub rax, 3\nxor rbx, rbx\nor rbx, rax\nand rbx, rbx\nmov rdi, rbx\nmov rax, 60\nsyscall\n"
	m, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	var out bytes.Buffer
	code, err := m.Run(&out)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	// 5 + 10 - 3 = 12, xor/or/and leave rbx == rax == 12, exit(rdi=12)
	if code != 12 {
		t.Errorf("exit code = %d, want 12", code)
	}
}

func TestMachineRunUnrecognizedSyscall(t *testing.T) {
	src := "mov rax, 999\nsyscall\n"
	m, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	var out bytes.Buffer
	if _, err := m.Run(&out); err == nil {
		t.Fatal("expected an error for an unrecognized syscall number")
	}
}

func TestMachineRunUnimplementedOpcodesAreNoOps(t *testing.T) {
	src := "mov rax, 1\npush rax\npop rax\ncmp rax, rax\nje _start\n_start:\ninc rax\ndec rax\nmov rdi, rax\nmov rax, 60\nsyscall\n"
	m, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	var out bytes.Buffer
	code, err := m.Run(&out)
	if err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	// push/pop/cmp/je/inc/dec never execute, so rax is untouched by
	// anything but the initial mov: exit code stays 1.
	if code != 1 {
		t.Errorf("exit code = %d, want 1 (unimplemented opcodes must be no-ops)", code)
	}
}
