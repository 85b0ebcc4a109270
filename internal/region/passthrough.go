package region

// Commit, Decommit, Reset, Unreset, Protect and Unprotect forward
// unchanged to the backend (spec §4.5). They exist on Arena only so
// callers need not distinguish region-backed memory from a direct-OS
// allocation when performing these operations — both were handed out by
// the same Arena and are freed the same way.

func (a *Arena) Commit(addr, size uintptr) bool { return a.backend.Commit(addr, size) }

func (a *Arena) Decommit(addr, size uintptr) bool { return a.backend.Decommit(addr, size) }

func (a *Arena) Reset(addr, size uintptr) bool { return a.backend.Reset(addr, size) }

func (a *Arena) Unreset(addr, size uintptr) bool { return a.backend.Unreset(addr, size) }

func (a *Arena) Protect(addr, size uintptr) bool { return a.backend.Protect(addr, size) }

func (a *Arena) Unprotect(addr, size uintptr) bool { return a.backend.Unprotect(addr, size) }
