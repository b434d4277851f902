package store

// Save has no declaration here; the declarations file provides one.
func Save(dir string) {
	flush(dir + "/data.db")
}

func flush(path string) {}
