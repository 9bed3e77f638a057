// Package profile describes the environment-call numbers a target
// simulator expects in a7 before an ecall, letting the code generator stay
// independent of which simulator will eventually run the assembly.
package profile

import "github.com/BurntSushi/toml"

// Profile is one simulator's syscall ABI.
type Profile struct {
	Name string `toml:"name"`

	PrintInt     int `toml:"print_int"`
	PrintString  int `toml:"print_string"`
	PrintChar    int `toml:"print_char"`
	ReadInt      int `toml:"read_int"`
	ExitNoCode   int `toml:"exit_no_code"`
	ExitWithCode int `toml:"exit_with_code"`
}

// Venus is the syscall table used by the Venus RISC-V simulator.
var Venus = Profile{
	Name:         "venus",
	PrintInt:     1,
	PrintString:  4,
	PrintChar:    11,
	ReadInt:      5,
	ExitNoCode:   10,
	ExitWithCode: 17,
}

// RARS is the syscall table used by the RARS RISC-V simulator. It matches
// Venus except for the exit-with-code number.
var RARS = Profile{
	Name:         "rars",
	PrintInt:     1,
	PrintString:  4,
	PrintChar:    11,
	ReadInt:      5,
	ExitNoCode:   10,
	ExitWithCode: 93,
}

// Default returns the profile used when the caller does not ask for one:
// Venus, since that is the environment the language's examples target.
func Default() Profile {
	return Venus
}

// Named resolves a profile by name, matching the -profile CLI flag. An
// empty name is treated as "venus".
func Named(name string) (Profile, bool) {
	switch name {
	case "", "venus":
		return Venus, true
	case "rars":
		return RARS, true
	default:
		return Profile{}, false
	}
}

// Load reads a Profile from a TOML file, for users who target a simulator
// with a different syscall table than Venus or RARS.
func Load(path string) (Profile, error) {
	var p Profile
	_, err := toml.DecodeFile(path, &p)
	return p, err
}
