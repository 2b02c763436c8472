package hostio

import "os"

// FileLoader resolves a program image name to a path on disk, reads
// the raw bytes into the Bus's memory starting at the next free
// address, and hands back the load address and length SPAWN and RESET
// need.
type FileLoader struct {
	bus  *Bus
	dirs []string
	next int
}

// NewFileLoader returns a loader that searches dirs in order for each
// image name, loading images into bus memory starting at loadBase.
func NewFileLoader(bus *Bus, loadBase int, dirs ...string) *FileLoader {
	return &FileLoader{bus: bus, dirs: dirs, next: loadBase}
}

func (l *FileLoader) Load(name string) (int, int, error) {
	var data []byte
	var err error
	for _, dir := range l.dirs {
		data, err = os.ReadFile(dir + "/" + name)
		if err == nil {
			break
		}
	}
	if err != nil {
		return 0, 0, err
	}

	addr := l.next
	for i, b := range data {
		if werr := l.bus.WriteMem(addr+i, int(b)); werr != nil {
			return 0, 0, werr
		}
	}
	l.next += len(data)
	return addr, len(data), nil
}
