// Package sysraw provides a uniform, cross-platform abstraction over
// low-level operating-system resource primitives.
//
// The root package defines the Descriptor type, an opaque handle to a live
// OS resource, together with an advisory liveness probe. The subpackages
// build on it:
//
//   - clone: copy-on-write file duplication (reflink) with a selectable
//     fallback policy
//   - mmap: anonymous and descriptor-backed virtual memory regions
//   - fsinfo: filesystem identity and block-size probing
//   - atomix: single-word atomic stores with explicit ordering
//   - shm: anonymous shared-memory segments for handle-duplication sharing
//   - envvar, user: thin process-environment and identity wrappers
//
// Platform divergence (Linux, Darwin, the other Unixes, Windows) is absorbed
// inside each package behind build-tagged files; the exported contracts are
// identical everywhere. Failures surface as typed errors inspectable by
// kind, never as panics, and no operation retries internally.
//
// Basic usage:
//
//	f, err := os.Open("data.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	d := sysraw.FileDescriptor(f)
//	if v := d.Validity(); !v.Ok() {
//	    log.Fatalf("descriptor not usable: %s", v)
//	}
//
//	res, err := clone.File("data.db", "data.db.bak", clone.ReflinkOrCopy)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res) // "reflinked" or "copied"
package sysraw
