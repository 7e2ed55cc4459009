package ufo

// Convert copies the complete container of r to w: meta info, font info,
// all layers, groups and kerning, lib, features, images and data. UFO 2
// sources are converted to UFO 3 on the way. w is not closed.
func Convert(w FormatWriter, r *Reader) error {
	if _, err := r.FormatVersion(); err != nil {
		return err
	}
	if err := w.WriteMetaInfo(); err != nil {
		return err
	}
	fi, err := r.FontInfo()
	if err != nil {
		return err
	}
	if err := w.WriteFontInfo(fi); err != nil {
		return err
	}
	layers, err := r.LayerSet()
	if err != nil {
		return err
	}
	if err := w.WriteLayers(layers); err != nil {
		return err
	}
	groups, kerning, err := r.GroupsAndKerning()
	if err != nil {
		return err
	}
	if err := w.WriteGroups(groups); err != nil {
		return err
	}
	if err := w.WriteKerning(kerning); err != nil {
		return err
	}
	lib, err := r.Lib()
	if err != nil {
		return err
	}
	if lib.Len() > 0 {
		if err := w.WriteLib(lib); err != nil {
			return err
		}
	}
	features, err := r.Features()
	if err != nil {
		return err
	}
	if err := w.WriteFeatures(features); err != nil {
		return err
	}
	if err := w.Images().CopyFrom(r.Images()); err != nil {
		return err
	}
	if err := w.Data().CopyFrom(r.Data()); err != nil {
		return err
	}
	tracer().Infof("converted %d layers", layers.Len())
	return nil
}
