package mcpserver

// SchoolProfile is the static school profile exposed as an MCP resource.
const SchoolProfile = `# SD Negeri 3 Bangkuang

Sekolah Dasar Negeri 3 Bangkuang adalah sekolah dasar negeri di Desa
Bangkuang, Kecamatan Karau Kuala, Kabupaten Barito Selatan, Kalimantan
Tengah.

## Visi

Terwujudnya peserta didik yang beriman, cerdas, terampil, mandiri, dan
berwawasan lingkungan.

## Misi

- Menanamkan keimanan dan ketakwaan melalui pengamalan ajaran agama.
- Mengoptimalkan proses pembelajaran dan bimbingan.
- Mengembangkan pengetahuan di bidang IPTEK, bahasa, olahraga, dan seni
  budaya sesuai bakat, minat, dan potensi siswa.
- Menjalin kerja sama yang harmonis antara warga sekolah dan lingkungan.

## Data langsung

Data guru, berita, dan galeri kegiatan tersedia melalui tools
` + "`list_teachers`, `list_news`, dan `list_gallery`" + `; jawaban bebas
tentang sekolah tersedia melalui tool ` + "`ask`" + `.
`
