package core

import (
	"context"
)

func (s *Store) GetPersonalDetail(ctx context.Context, employeeID string) (PersonalDetail, error) {
	var d PersonalDetail
	var nikPlain string
	var nikSealed []byte
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id::text, nik, nik_enc, full_name, nickname, gender, birth_place, birth_date,
           address_ktp, address_current, education, last_job, phone, email, blood_type,
           height_cm, weight_kg, shirt_size, shoe_size, marital_status, spouse_name, spouse_job,
           num_children, bpjs_ketenagakerjaan, bpjs_kesehatan, parents_name, parents_address,
           num_siblings, note_health, emergency_contact_name, emergency_contact_phone,
           emergency_contact_relation, emergency_contact_address, updated_at
    FROM employee_personal_details
    WHERE employee_id = $1
  `, employeeID).Scan(
		&d.EmployeeID, &nikPlain, &nikSealed, &d.FullName, &d.Nickname, &d.Gender, &d.BirthPlace, &d.BirthDate,
		&d.AddressKTP, &d.AddressCurrent, &d.Education, &d.LastJob, &d.Phone, &d.Email, &d.BloodType,
		&d.HeightCm, &d.WeightKg, &d.ShirtSize, &d.ShoeSize, &d.MaritalStatus, &d.SpouseName, &d.SpouseJob,
		&d.NumChildren, &d.BPJSEmployment, &d.BPJSHealth, &d.ParentsName, &d.ParentsAddress,
		&d.NumSiblings, &d.NoteHealth, &d.EmergencyName, &d.EmergencyPhone,
		&d.EmergencyRelation, &d.EmergencyAddress, &d.UpdatedAt,
	)
	if err != nil {
		return PersonalDetail{}, mapError(err)
	}
	d.NIK = s.Sealer.OpenOr(nikSealed, nikPlain)
	return d, nil
}

// SavePersonalDetail upserts the 1:1 record. With a sealer configured the NIK
// is only stored encrypted.
func (s *Store) SavePersonalDetail(ctx context.Context, d PersonalDetail) error {
	nikPlain := d.NIK
	nikSealed, err := s.Sealer.Seal(d.NIK)
	if err != nil {
		return err
	}
	if nikSealed != nil {
		nikPlain = ""
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO employee_personal_details (
      employee_id, nik, nik_enc, full_name, nickname, gender, birth_place, birth_date,
      address_ktp, address_current, education, last_job, phone, email, blood_type,
      height_cm, weight_kg, shirt_size, shoe_size, marital_status, spouse_name, spouse_job,
      num_children, bpjs_ketenagakerjaan, bpjs_kesehatan, parents_name, parents_address,
      num_siblings, note_health, emergency_contact_name, emergency_contact_phone,
      emergency_contact_relation, emergency_contact_address, updated_at
    ) VALUES (
      $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,
      $23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33, now()
    )
    ON CONFLICT (employee_id) DO UPDATE SET
      nik = EXCLUDED.nik, nik_enc = EXCLUDED.nik_enc, full_name = EXCLUDED.full_name,
      nickname = EXCLUDED.nickname, gender = EXCLUDED.gender, birth_place = EXCLUDED.birth_place,
      birth_date = EXCLUDED.birth_date, address_ktp = EXCLUDED.address_ktp,
      address_current = EXCLUDED.address_current, education = EXCLUDED.education,
      last_job = EXCLUDED.last_job, phone = EXCLUDED.phone, email = EXCLUDED.email,
      blood_type = EXCLUDED.blood_type, height_cm = EXCLUDED.height_cm, weight_kg = EXCLUDED.weight_kg,
      shirt_size = EXCLUDED.shirt_size, shoe_size = EXCLUDED.shoe_size,
      marital_status = EXCLUDED.marital_status, spouse_name = EXCLUDED.spouse_name,
      spouse_job = EXCLUDED.spouse_job, num_children = EXCLUDED.num_children,
      bpjs_ketenagakerjaan = EXCLUDED.bpjs_ketenagakerjaan, bpjs_kesehatan = EXCLUDED.bpjs_kesehatan,
      parents_name = EXCLUDED.parents_name, parents_address = EXCLUDED.parents_address,
      num_siblings = EXCLUDED.num_siblings, note_health = EXCLUDED.note_health,
      emergency_contact_name = EXCLUDED.emergency_contact_name,
      emergency_contact_phone = EXCLUDED.emergency_contact_phone,
      emergency_contact_relation = EXCLUDED.emergency_contact_relation,
      emergency_contact_address = EXCLUDED.emergency_contact_address,
      updated_at = now()
  `,
		d.EmployeeID, nikPlain, nikSealed, d.FullName, d.Nickname, d.Gender, d.BirthPlace, d.BirthDate,
		d.AddressKTP, d.AddressCurrent, d.Education, d.LastJob, d.Phone, d.Email, d.BloodType,
		d.HeightCm, d.WeightKg, d.ShirtSize, d.ShoeSize, d.MaritalStatus, d.SpouseName, d.SpouseJob,
		d.NumChildren, d.BPJSEmployment, d.BPJSHealth, d.ParentsName, d.ParentsAddress,
		d.NumSiblings, d.NoteHealth, d.EmergencyName, d.EmergencyPhone,
		d.EmergencyRelation, d.EmergencyAddress,
	)
	return mapError(err)
}
