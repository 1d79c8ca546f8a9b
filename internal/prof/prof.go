package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the profile files opened for one rblint invocation.
type Session struct {
	cpu     *os.File
	rtTrace *os.File
	memPath string
}

// Start opens the requested profiles. Empty paths are skipped.
func Start(cpuPath, memPath, tracePath string) (*Session, error) {
	s := &Session{memPath: memPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.cpu = f
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			s.stopCPU()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, err
		}
		s.rtTrace = f
	}
	return s, nil
}

func (s *Session) stopCPU() {
	if s.cpu == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpu.Close()
	s.cpu = nil
}

// Stop ends CPU and runtime tracing and writes the heap profile.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.stopCPU()
	if s.rtTrace != nil {
		trace.Stop()
		_ = s.rtTrace.Close()
		s.rtTrace = nil
	}
	if s.memPath == "" {
		return nil
	}
	return writeHeap(s.memPath)
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
