package ihex

// Merge copies every mapped byte of other into the image. Where both images
// define an address, other's byte wins; where only other does, new runs are
// inserted and coalesce with neighbors as usual. The image keeps its own
// start record and adopts other's only when it has none. other is never
// modified.
func (im *Image) Merge(other *Image) error {
	for _, b := range other.blocks {
		if err := im.overwriteRun(b.Addr, b.Data); err != nil {
			return err
		}
	}
	if im.startRecord == nil && other.startRecord != nil {
		im.startRecord = append([]byte(nil), other.startRecord...)
	}
	return nil
}

// MergeAll combines images into a fresh image, applying them in order, so on
// any shared address a later image's byte wins over an earlier one's. The
// start record comes from the first image carrying one. Inputs are never
// modified; nil entries are skipped.
func MergeAll(images ...*Image) (*Image, error) {
	out := New()
	for _, im := range images {
		if im == nil {
			continue
		}
		if err := out.Merge(im); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// overwriteRun writes one contiguous run into the image, overwriting bytes
// that already exist and inserting fresh runs for the stretches that do not.
func (im *Image) overwriteRun(addr uint32, data []byte) error {
	cur := addr
	rest := data
	for len(rest) > 0 {
		if i := findBlock(im.blocks, cur); i >= 0 {
			b := &im.blocks[i]
			off := int(cur - b.Addr)
			n := min(len(rest), len(b.Data)-off)
			copy(b.Data[off:], rest[:n])
			cur += uint32(n)
			rest = rest[n:]
			continue
		}
		n := len(rest)
		if j := coverIndex(im.blocks, cur); j < len(im.blocks) {
			if gap := int(uint64(im.blocks[j].Addr) - uint64(cur)); n > gap {
				n = gap
			}
		}
		blocks, err := insertRun(im.blocks, cur, rest[:n])
		if err != nil {
			return err
		}
		im.blocks = blocks
		cur += uint32(n)
		rest = rest[n:]
	}
	return nil
}
